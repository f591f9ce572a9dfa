package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicehub/internal/domain"
	"invoicehub/internal/middleware"
)

// APIResponse is the envelope for export and routing responses. The /api/invoices
// routes answer with bare invoices and InvoiceErrorBody instead.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	RespondErrorDetails(c, status, code, msg, nil)
}

// RespondErrorDetails sends an error response with itemized details.
func RespondErrorDetails(c *gin.Context, status int, code, msg string, details []string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg, Details: details},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, "VALIDATION_ERROR", "invoice failed validation"
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		return http.StatusConflict, "INVOICE_NUMBER_CONFLICT", "invoice number was taken concurrently; retry the request"
	case errors.Is(err, domain.ErrUnsupportedExportFormat):
		return http.StatusBadRequest, "UNSUPPORTED_EXPORT_FORMAT", "unsupported export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED", "export upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// mapAndLog maps err and logs the cause of 5xx responses, which is never sent
// to the client.
func mapAndLog(c *gin.Context, err error) (status int, code, msg string, details []string) {
	status, code, msg = MapDomainError(err)
	if status >= 500 {
		log.Printf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		details = vErr.Messages()
	}
	return status, code, msg, details
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg, details := mapAndLog(c, err)
	RespondErrorDetails(c, status, code, msg, details)
}

// InvoiceErrorBody is the error body of the /api/invoices routes. The web client
// reads invoices from the bare response body and validation messages from errors.
type InvoiceErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func respondInvoiceError(c *gin.Context, status int, code, msg string, errs []string) {
	c.JSON(status, InvoiceErrorBody{Code: code, Message: msg, Errors: errs})
}

// HandleInvoiceError is HandleError for the /api/invoices routes.
func HandleInvoiceError(c *gin.Context, err error) {
	status, code, msg, details := mapAndLog(c, err)
	respondInvoiceError(c, status, code, msg, details)
}
