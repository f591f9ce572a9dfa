package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"invoicehub/internal/domain"
	"invoicehub/internal/port"
)

const (
	uniqueViolation         = "23505"
	invoiceNumberConstraint = "invoices_invoice_number_key"
	invoiceColumns          = `id, invoice_number, date, customer_name, billing_address, shipping_address, gstin, items, bill_sundrys, total_amount, created_at, updated_at`
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context) (int, error) {
	var next int
	err := r.db.GetContext(ctx, &next, "SELECT COALESCE(MAX(invoice_number), 0) + 1 FROM invoices")
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.NextInvoiceNumber: %w", err)
	}
	return next, nil
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.Date, inv.CustomerName, inv.BillingAddress,
		inv.ShippingAddress, inv.GSTIN, inv.Items, inv.BillSundrys, inv.TotalAmount,
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isInvoiceNumberConflict(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	err := r.db.SelectContext(ctx, &invoices,
		"SELECT "+invoiceColumns+" FROM invoices ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	query := `UPDATE invoices SET date = $1, customer_name = $2, billing_address = $3,
		shipping_address = $4, gstin = $5, items = $6, bill_sundrys = $7, total_amount = $8,
		updated_at = $9
		WHERE id = $10
		RETURNING ` + invoiceColumns

	err := r.db.GetContext(ctx, inv, query,
		inv.Date, inv.CustomerName, inv.BillingAddress, inv.ShippingAddress, inv.GSTIN,
		inv.Items, inv.BillSundrys, inv.TotalAmount, time.Now().UTC(), inv.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrInvoiceNotFound
		}
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func isInvoiceNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == invoiceNumberConstraint
}
