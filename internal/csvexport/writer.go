package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoicehub/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the CSV header row, one row per invoice.
var Columns = []string{
	"Invoice Number",
	"Date",
	"Customer Name",
	"Billing Address",
	"Shipping Address",
	"GSTIN",
	"Line Item Count",
	"Items Total",
	"Sundry Total",
	"Total Amount",
	"Created At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(InvoiceRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// InvoiceRow converts a single invoice to a row aligned with Columns.
func InvoiceRow(inv *domain.Invoice) []string {
	return []string{
		strconv.Itoa(inv.InvoiceNumber),
		inv.Date.String(),
		inv.CustomerName,
		inv.BillingAddress,
		inv.ShippingAddress,
		inv.GSTIN,
		strconv.Itoa(len(inv.Items)),
		inv.ItemsTotal().StringFixed(2),
		inv.SundryTotal().StringFixed(2),
		strconv.FormatFloat(inv.TotalAmount, 'f', 2, 64),
		inv.CreatedAt.Format(time.RFC3339),
		inv.UpdatedAt.Format(time.RFC3339),
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), ext)
}
