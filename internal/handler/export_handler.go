package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invoicehub/internal/csvexport"
	"invoicehub/internal/domain"
	"invoicehub/internal/service"
)

const pdfContentType = "application/pdf"

// ExportHandler serves invoice downloads and published exports.
type ExportHandler struct {
	exportService service.ExportService
	now           func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService, now: time.Now}
}

// Download handles GET /api/exports/invoices?format=csv|xlsx
// @Summary Download all invoices
// @Tags exports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Unsupported format"
// @Router /exports/invoices [get]
func (h *ExportHandler) Download(c *gin.Context) {
	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	// Rendered in memory so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if _, err := h.exportService.Write(c.Request.Context(), format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("invoices", string(format), h.now())
	attachment(c, filename, domain.ExportContentTypes[format], buf.Bytes())
}

// Publish handles POST /api/exports/invoices?format=csv|xlsx
// @Summary Upload an export to object storage
// @Tags exports
// @Produce json
// @Param format query string false "csv (default) or xlsx"
// @Success 201 {object} APIResponse{data=service.PublishedExport}
// @Failure 400 {object} APIResponse "Unsupported format"
// @Failure 502 {object} APIResponse "Upload failed"
// @Router /exports/invoices [post]
func (h *ExportHandler) Publish(c *gin.Context) {
	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	out, err := h.exportService.Publish(c.Request.Context(), format)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, out)
}

// InvoicePDF handles GET /api/invoices/:id/pdf
// @Summary Render an invoice as PDF
// @Tags exports
// @Produce application/pdf
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {file} file
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id}/pdf [get]
func (h *ExportHandler) InvoicePDF(c *gin.Context) {
	id, ok := invoiceID(c, HandleError)
	if !ok {
		return
	}

	var buf bytes.Buffer
	inv, err := h.exportService.RenderPDF(c.Request.Context(), id, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	attachment(c, fmt.Sprintf("invoice_%d.pdf", inv.InvoiceNumber), pdfContentType, buf.Bytes())
}

func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, body)
}
