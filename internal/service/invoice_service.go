package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"invoicehub/internal/domain"
	"invoicehub/internal/port"
)

// numberAllocationAttempts bounds how often Create allocates a fresh invoice number
// after losing an insert race.
const numberAllocationAttempts = 2

// InvoiceInput is the client payload for creating or replacing an invoice.
// Invoice numbers, ids and timestamps are never taken from the client.
type InvoiceInput struct {
	Date            domain.Date       `json:"date"`
	CustomerName    string            `json:"customerName" binding:"required"`
	BillingAddress  string            `json:"billingAddress" binding:"required"`
	ShippingAddress string            `json:"shippingAddress" binding:"required"`
	GSTIN           string            `json:"GSTIN" binding:"required"`
	Items           []domain.LineItem `json:"items" binding:"dive"`
	BillSundrys     []domain.Sundry   `json:"billSundrys" binding:"dive"`
	TotalAmount     float64           `json:"totalAmount"`
}

func (in *InvoiceInput) toInvoice() *domain.Invoice {
	sundries := domain.Sundries(in.BillSundrys)
	if sundries == nil {
		sundries = domain.Sundries{}
	}
	return &domain.Invoice{
		Date:            in.Date,
		CustomerName:    in.CustomerName,
		BillingAddress:  in.BillingAddress,
		ShippingAddress: in.ShippingAddress,
		GSTIN:           in.GSTIN,
		Items:           domain.LineItems(in.Items),
		BillSundrys:     sundries,
		TotalAmount:     in.TotalAmount,
	}
}

// InvoiceValidator checks an invoice against the business rules and returns a
// *domain.ValidationError when any rule fails.
type InvoiceValidator interface {
	Check(inv *domain.Invoice) error
}

// InvoiceService defines the invoice management contract.
type InvoiceService interface {
	Validate(input InvoiceInput) error
	Create(ctx context.Context, input InvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	repo      port.InvoiceRepository
	validator InvoiceValidator
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(repo port.InvoiceRepository, validator InvoiceValidator) InvoiceService {
	return &invoiceService{repo: repo, validator: validator}
}

// Validate runs the invoice rules without touching storage.
func (s *invoiceService) Validate(input InvoiceInput) error {
	return s.validator.Check(input.toInvoice())
}

func (s *invoiceService) Create(ctx context.Context, input InvoiceInput) (*domain.Invoice, error) {
	inv := input.toInvoice()
	if err := s.validator.Check(inv); err != nil {
		return nil, err
	}

	var err error
	for attempt := 1; attempt <= numberAllocationAttempts; attempt++ {
		inv.InvoiceNumber, err = s.repo.NextInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, inv)
		if !errors.Is(err, domain.ErrDuplicateInvoiceNumber) {
			break
		}
		log.Printf("service.Create: invoice number %d already taken (attempt %d/%d)",
			inv.InvoiceNumber, attempt, numberAllocationAttempts)
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.repo.List(ctx)
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*domain.Invoice, error) {
	inv := input.toInvoice()
	if err := s.validator.Check(inv); err != nil {
		return nil, err
	}

	inv.ID = id
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
