package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicehub/internal/domain"
	"invoicehub/internal/service"
)

// InvoiceHandler handles invoice CRUD endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	useJSONFieldNames()
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /api/invoices
// @Summary Create an invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body service.InvoiceInput true "Invoice"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} InvoiceErrorBody "Validation error"
// @Failure 409 {object} InvoiceErrorBody "Invoice number conflict"
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	input, ok := h.bindInvoiceInput(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		HandleInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// List handles GET /api/invoices
// @Summary List invoices, newest first
// @Tags invoices
// @Produce json
// @Success 200 {array} domain.Invoice
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoiceService.List(c.Request.Context())
	if err != nil {
		HandleInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetByID handles GET /api/invoices/:id
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} InvoiceErrorBody "Invoice not found"
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := invoiceID(c, HandleInvoiceError)
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// Update handles PUT /api/invoices/:id
// @Summary Replace an invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Param request body service.InvoiceInput true "Invoice"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} InvoiceErrorBody "Validation error"
// @Failure 404 {object} InvoiceErrorBody "Invoice not found"
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := invoiceID(c, HandleInvoiceError)
	if !ok {
		return
	}
	input, ok := h.bindInvoiceInput(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// Delete handles DELETE /api/invoices/:id
// @Summary Delete an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} map[string]string
// @Failure 404 {object} InvoiceErrorBody "Invoice not found"
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := invoiceID(c, HandleInvoiceError)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// invoiceID parses the :id path parameter. A malformed id cannot name a stored
// invoice, so it is answered like any other unknown id.
func invoiceID(c *gin.Context, handleErr func(*gin.Context, error)) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleErr(c, domain.ErrInvoiceNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// bindInvoiceInput decodes the body. Missing required fields are reported together
// with the invoice rule violations of the decoded payload.
func (h *InvoiceHandler) bindInvoiceInput(c *gin.Context) (service.InvoiceInput, bool) {
	var input service.InvoiceInput
	err := c.ShouldBindJSON(&input)
	if err == nil {
		return input, true
	}

	details, ok := bindingDetails(err)
	if !ok {
		respondInvoiceError(c, http.StatusBadRequest, "INVALID_BODY", "request body is not a valid invoice",
			[]string{decodeDetail(err)})
		return input, false
	}

	var vErr *domain.ValidationError
	if errors.As(h.invoiceService.Validate(input), &vErr) {
		details = append(details, vErr.Messages()...)
	}
	respondInvoiceError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invoice failed validation", details)
	return input, false
}
