package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound                = errors.New("resource not found")
	ErrInvoiceNotFound         = errors.New("invoice not found")
	ErrDuplicateInvoiceNumber  = errors.New("invoice number already allocated")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrUploadFailed            = errors.New("export upload to storage failed")
	ErrInvalidDate             = errors.New("invalid date")
)

// Violation is a single failed invoice rule.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Field    string        `json:"field"`
	Item     int           `json:"item,omitempty"` // 1-based; 0 when not item-scoped
	Expected string        `json:"expected,omitempty"`
	Actual   string        `json:"actual,omitempty"`
	Message  string        `json:"message"`
}

// ValidationError carries every violation found for a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "invoice validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the human-readable messages in rule order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i := range e.Violations {
		msgs[i] = e.Violations[i].Message
	}
	return msgs
}
