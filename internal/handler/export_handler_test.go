package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicehub/internal/domain"
	"invoicehub/internal/handler"
	"invoicehub/internal/service"
	"invoicehub/mocks"
)

func newExportHandler() (*handler.ExportHandler, *mocks.MockExportService) {
	mockSvc := new(mocks.MockExportService)
	return handler.NewExportHandler(mockSvc), mockSvc
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestExportHandler_Download_CSV(t *testing.T) {
	h, mockSvc := newExportHandler()
	mockSvc.WriteFn = func(w io.Writer) { _, _ = io.WriteString(w, "Invoice Number\n1\n") }
	mockSvc.On("Write", mock.Anything, domain.ExportFormatCSV, mock.Anything).Return(1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/exports/invoices", http.NoBody)
	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="invoices_\d{4}-\d{2}-\d{2}\.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Invoice Number\n1\n", w.Body.String())
}

func TestExportHandler_Download_XLSX(t *testing.T) {
	h, mockSvc := newExportHandler()
	mockSvc.On("Write", mock.Anything, domain.ExportFormatXLSX, mock.Anything).Return(0, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/exports/invoices?format=xlsx", http.NoBody)
	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ExportContentTypes[domain.ExportFormatXLSX], w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

func TestExportHandler_Download_UnsupportedFormat(t *testing.T) {
	h, mockSvc := newExportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/exports/invoices?format=ods", http.NoBody)
	h.Download(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_EXPORT_FORMAT", decode(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportHandler_Publish(t *testing.T) {
	h, mockSvc := newExportHandler()
	mockSvc.On("Publish", mock.Anything, domain.ExportFormatXLSX).Return(&service.PublishedExport{
		Key:      "exports/invoices_20261018T101500Z.xlsx",
		URL:      "https://signed.example/x",
		Format:   domain.ExportFormatXLSX,
		Invoices: 3,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/exports/invoices?format=xlsx", http.NoBody)
	h.Publish(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "exports/invoices_20261018T101500Z.xlsx", data["key"])
	assert.Equal(t, "https://signed.example/x", data["url"])
}

func TestExportHandler_Publish_UploadFailed(t *testing.T) {
	h, mockSvc := newExportHandler()
	mockSvc.On("Publish", mock.Anything, domain.ExportFormatCSV).Return(nil, domain.ErrUploadFailed)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/exports/invoices", http.NoBody)
	h.Publish(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "UPLOAD_FAILED", decode(t, w).Error.Code)
}

func TestExportHandler_InvoicePDF(t *testing.T) {
	h, mockSvc := newExportHandler()
	id := uuid.New()
	mockSvc.RenderFn = func(w io.Writer) { _, _ = io.WriteString(w, "%PDF-1.3 test") }
	mockSvc.On("RenderPDF", mock.Anything, id, mock.Anything).Return(&domain.Invoice{ID: id, InvoiceNumber: 12}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/invoices/"+id.String()+"/pdf", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.InvoicePDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice_12.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 test", w.Body.String())
}

func TestExportHandler_InvoicePDF_NotFound(t *testing.T) {
	h, mockSvc := newExportHandler()
	id := uuid.New()
	mockSvc.On("RenderPDF", mock.Anything, id, mock.Anything).Return(nil, domain.ErrInvoiceNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/invoices/"+id.String()+"/pdf", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.InvoicePDF(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
