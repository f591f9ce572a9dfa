package port

import (
	"context"

	"github.com/google/uuid"

	"invoicehub/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	// NextInvoiceNumber returns the persisted maximum invoice number plus one, or 1
	// when no invoices exist. It is not atomic with Create.
	NextInvoiceNumber(ctx context.Context) (int, error)
	// Create assigns ID and timestamps and inserts the invoice. A clash on the invoice
	// number returns domain.ErrDuplicateInvoiceNumber.
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	// List returns all invoices, newest created first.
	List(ctx context.Context) ([]domain.Invoice, error)
	// Update replaces every mutable field of the row identified by inv.ID and reloads
	// inv from the stored row.
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}
