package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the billing document aggregate. The JSON and database shapes are the
// same record; items and sundries live in JSONB columns owned by the row.
type Invoice struct {
	ID              uuid.UUID `db:"id" json:"id"`
	InvoiceNumber   int       `db:"invoice_number" json:"invoiceNumber"`
	Date            Date      `db:"date" json:"date"`
	CustomerName    string    `db:"customer_name" json:"customerName"`
	BillingAddress  string    `db:"billing_address" json:"billingAddress"`
	ShippingAddress string    `db:"shipping_address" json:"shippingAddress"`
	GSTIN           string    `db:"gstin" json:"GSTIN"`
	Items           LineItems `db:"items" json:"items"`
	BillSundrys     Sundries  `db:"bill_sundrys" json:"billSundrys"`
	TotalAmount     float64   `db:"total_amount" json:"totalAmount"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// LineItem is a billed product or service entry within an invoice.
type LineItem struct {
	ItemName string  `json:"itemName" binding:"required"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
}

// Sundry is a miscellaneous charge or credit (tax, discount, freight).
type Sundry struct {
	BillSundryName string  `json:"billSundryName" binding:"required"`
	Amount         float64 `json:"amount"`
}

// ItemsTotal returns Σ(quantity × price) over all line items for exports and
// printouts. The caller-supplied per-line Amount is not consulted. The totals
// rule in internal/validator compares in float64 instead.
func (inv *Invoice) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range inv.Items {
		total = total.Add(inv.Items[i].LineTotal())
	}
	return total
}

// SundryTotal returns Σ(amount) over all bill sundries.
func (inv *Invoice) SundryTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range inv.BillSundrys {
		total = total.Add(decimal.NewFromFloat(inv.BillSundrys[i].Amount))
	}
	return total
}

// ComputedTotal is ItemsTotal plus SundryTotal.
func (inv *Invoice) ComputedTotal() decimal.Decimal {
	return inv.ItemsTotal().Add(inv.SundryTotal())
}

// LineTotal returns quantity × price.
func (li *LineItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(li.Quantity).Mul(decimal.NewFromFloat(li.Price))
}

// LineItems is stored as a JSONB array.
type LineItems []LineItem

// Value implements driver.Valuer.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]LineItem(l))
}

// Scan implements sql.Scanner.
func (l *LineItems) Scan(src interface{}) error {
	return scanJSONArray(src, (*[]LineItem)(l))
}

// Sundries is stored as a JSONB array.
type Sundries []Sundry

// Value implements driver.Valuer.
func (s Sundries) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Sundry(s))
}

// Scan implements sql.Scanner.
func (s *Sundries) Scan(src interface{}) error {
	return scanJSONArray(src, (*[]Sundry)(s))
}

func scanJSONArray(src, dst interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
