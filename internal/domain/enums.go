package domain

// ViolationKind identifies which invoice rule a violation came from.
type ViolationKind string

const (
	ViolationDateInPast    ViolationKind = "date_in_past"
	ViolationItemsRequired ViolationKind = "items_required"
	ViolationItemPrice     ViolationKind = "item_price"
	ViolationItemQuantity  ViolationKind = "item_quantity"
	ViolationTotalMismatch ViolationKind = "total_mismatch"
)

// ExportFormat represents the supported bulk export formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportContentTypes maps ExportFormat to its MIME content type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseExportFormat resolves a query value to an ExportFormat. Empty means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	if s == "" {
		return ExportFormatCSV, nil
	}
	f := ExportFormat(s)
	if _, ok := ExportContentTypes[f]; !ok {
		return "", ErrUnsupportedExportFormat
	}
	return f, nil
}
