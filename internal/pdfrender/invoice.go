// Package pdfrender produces a printable single-invoice PDF.
package pdfrender

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"invoicehub/internal/domain"
)

const (
	lineHeight = 7.0
	pageWidth  = 190.0
)

// item table column widths: #, name, qty, price, amount
var itemWidths = []float64{12, 88, 25, 30, 35}

// Render writes inv to w as an A4 PDF.
func Render(w io.Writer, inv *domain.Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Invoice %d", inv.InvoiceNumber), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth/2, 10, fmt.Sprintf("Invoice #%d", inv.InvoiceNumber), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(pageWidth/2, 10, "Date: "+inv.Date.String(), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(pageWidth, lineHeight, tr(inv.CustomerName), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pageWidth, lineHeight, "GSTIN: "+tr(inv.GSTIN), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	y := pdf.GetY()
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pageWidth/2, lineHeight, "Bill To", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(pageWidth/2-5, 5, tr(inv.BillingAddress), "", "L", false)
	billEnd := pdf.GetY()

	pdf.SetXY(10+pageWidth/2, y)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pageWidth/2, lineHeight, "Ship To", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(10 + pageWidth/2)
	pdf.MultiCell(pageWidth/2, 5, tr(inv.ShippingAddress), "", "L", false)
	if pdf.GetY() < billEnd {
		pdf.SetY(billEnd)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"#", "Item", "Qty", "Price", "Amount"} {
		align := "R"
		if i == 1 {
			align = "L"
		}
		pdf.CellFormat(itemWidths[i], lineHeight, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for i, item := range inv.Items {
		pdf.CellFormat(itemWidths[0], lineHeight, strconv.Itoa(i+1), "1", 0, "R", false, 0, "")
		pdf.CellFormat(itemWidths[1], lineHeight, tr(item.ItemName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(itemWidths[2], lineHeight, decimal.NewFromFloat(item.Quantity).String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(itemWidths[3], lineHeight, money(decimal.NewFromFloat(item.Price)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(itemWidths[4], lineHeight, money(item.LineTotal()), "1", 1, "R", false, 0, "")
	}

	labelWidth := pageWidth - itemWidths[4]
	summaryRow(pdf, labelWidth, "Items total", money(inv.ItemsTotal()), false)
	for _, s := range inv.BillSundrys {
		summaryRow(pdf, labelWidth, tr(s.BillSundryName), money(decimal.NewFromFloat(s.Amount)), false)
	}
	summaryRow(pdf, labelWidth, "Total", money(decimal.NewFromFloat(inv.TotalAmount)), true)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering invoice %d: %w", inv.InvoiceNumber, err)
	}
	return nil
}

func summaryRow(pdf *gofpdf.Fpdf, labelWidth float64, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(itemWidths[4], lineHeight, value, "1", 1, "R", false, 0, "")
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
