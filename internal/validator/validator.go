package validator

import (
	"time"

	"invoicehub/internal/domain"
)

// Rule is a single invoice business rule. Rules are independent of each other and
// report every violation they find.
type Rule interface {
	Check(inv *domain.Invoice, now time.Time) []domain.Violation
	RuleKey() string
	RuleName() string
}
