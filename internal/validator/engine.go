package validator

import (
	"time"

	"invoicehub/internal/domain"
)

// Engine runs every registered rule against an invoice.
type Engine struct {
	registry *Registry
	now      func() time.Time
}

// NewEngine creates an Engine. A nil clock defaults to time.Now.
func NewEngine(registry *Registry, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{registry: registry, now: now}
}

// NewDefaultEngine creates an Engine loaded with BuiltinRules.
func NewDefaultEngine() *Engine {
	reg := NewRegistry()
	for _, r := range BuiltinRules() {
		reg.Register(r)
	}
	return NewEngine(reg, nil)
}

// Validate returns all violations in rule order; empty means valid.
func (e *Engine) Validate(inv *domain.Invoice) []domain.Violation {
	now := e.now()
	var out []domain.Violation
	for _, rule := range e.registry.All() {
		out = append(out, rule.Check(inv, now)...)
	}
	return out
}

// Check is Validate folded into an error: nil when valid, *domain.ValidationError otherwise.
func (e *Engine) Check(inv *domain.Invoice) error {
	if v := e.Validate(inv); len(v) > 0 {
		return &domain.ValidationError{Violations: v}
	}
	return nil
}
