// Package xlsxexport renders invoices as an Excel workbook with an invoice summary
// sheet and a line-item sheet.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"invoicehub/internal/csvexport"
	"invoicehub/internal/domain"
)

const (
	SummarySheet = "Invoices"
	ItemsSheet   = "Line Items"
)

var itemColumns = []string{"Invoice Number", "Line", "Item Name", "Quantity", "Price", "Amount"}

// Write renders invoices to w as an .xlsx workbook.
func Write(w io.Writer, invoices []domain.Invoice) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return fmt.Errorf("creating items sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeRow(f, SummarySheet, 1, toCells(csvexport.Columns)); err != nil {
		return err
	}
	if err := writeRow(f, ItemsSheet, 1, toCells(itemColumns)); err != nil {
		return err
	}
	for _, sheet := range []string{SummarySheet, ItemsSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return fmt.Errorf("styling %s header: %w", sheet, err)
		}
	}

	itemRow := 2
	for i := range invoices {
		inv := &invoices[i]
		if err := writeRow(f, SummarySheet, i+2, summaryCells(inv)); err != nil {
			return err
		}
		for j := range inv.Items {
			item := &inv.Items[j]
			cells := []interface{}{inv.InvoiceNumber, j + 1, item.ItemName, item.Quantity, item.Price, item.Amount}
			if err := writeRow(f, ItemsSheet, itemRow, cells); err != nil {
				return err
			}
			itemRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// summaryCells keeps text columns from the CSV row and writes amounts as numbers.
func summaryCells(inv *domain.Invoice) []interface{} {
	cells := toCells(csvexport.InvoiceRow(inv))
	cells[0] = inv.InvoiceNumber
	cells[6] = len(inv.Items)
	cells[7] = inv.ItemsTotal().InexactFloat64()
	cells[8] = inv.SundryTotal().InexactFloat64()
	cells[9] = inv.TotalAmount
	return cells
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
