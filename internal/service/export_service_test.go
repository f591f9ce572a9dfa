package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicehub/internal/config"
	"invoicehub/internal/csvexport"
	"invoicehub/internal/domain"
	"invoicehub/internal/port"
	"invoicehub/internal/service"
	"invoicehub/mocks"
)

var fixedNow = time.Date(2026, time.October, 18, 10, 15, 0, 0, time.UTC)

func exportFixtures() []domain.Invoice {
	return []domain.Invoice{
		{
			ID:            uuid.New(),
			InvoiceNumber: 2,
			Date:          domain.NewDate(2026, time.October, 20),
			CustomerName:  "Beta LLP",
			Items:         domain.LineItems{{ItemName: "Bolt", Quantity: 4, Price: 2.5, Amount: 10}},
			BillSundrys:   domain.Sundries{{BillSundryName: "Freight", Amount: 1}},
			TotalAmount:   11,
		},
		{
			ID:            uuid.New(),
			InvoiceNumber: 1,
			Date:          domain.NewDate(2026, time.October, 19),
			CustomerName:  "Acme",
			Items:         domain.LineItems{{ItemName: "A", Quantity: 1, Price: 9.5, Amount: 9.5}},
			TotalAmount:   9.5,
		},
	}
}

func newExportService(storage port.ObjectStorage) (service.ExportService, *mocks.MockInvoiceRepo) {
	repo := new(mocks.MockInvoiceRepo)
	s3Cfg := &config.S3Config{Bucket: "invoicehub-exports", PresignExpiry: 900}
	exportCfg := &config.ExportConfig{KeyPrefix: "exports"}
	return service.NewExportService(repo, storage, s3Cfg, exportCfg, func() time.Time { return fixedNow }), repo
}

func TestExportService_WriteCSV(t *testing.T) {
	svc, repo := newExportService(nil)
	repo.On("List", mock.Anything).Return(exportFixtures(), nil)

	var buf bytes.Buffer
	n, err := svc.Write(context.Background(), domain.ExportFormatCSV, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	body := buf.Bytes()
	require.True(t, bytes.HasPrefix(body, csvexport.BOM))
	records, err := csv.NewReader(bytes.NewReader(body[len(csvexport.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvexport.Columns, records[0])
	assert.Equal(t, "2", records[1][0])
	assert.Equal(t, "11.00", records[1][9])
	assert.Equal(t, "1", records[2][0])
}

func TestExportService_WriteXLSX(t *testing.T) {
	svc, repo := newExportService(nil)
	repo.On("List", mock.Anything).Return(exportFixtures(), nil)

	var buf bytes.Buffer
	n, err := svc.Write(context.Background(), domain.ExportFormatXLSX, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestExportService_Write_RepoError(t *testing.T) {
	svc, repo := newExportService(nil)
	repo.On("List", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Write(context.Background(), domain.ExportFormatCSV, io.Discard)
	assert.EqualError(t, err, "db down")
}

func TestExportService_Write_UnknownFormat(t *testing.T) {
	svc, repo := newExportService(nil)
	repo.On("List", mock.Anything).Return(exportFixtures(), nil)

	_, err := svc.Write(context.Background(), domain.ExportFormat("pdf"), io.Discard)
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)
}

func TestExportService_RenderPDF(t *testing.T) {
	svc, repo := newExportService(nil)
	inv := exportFixtures()[0]
	repo.On("GetByID", mock.Anything, inv.ID).Return(&inv, nil)

	var buf bytes.Buffer
	got, err := svc.RenderPDF(context.Background(), inv.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, got.InvoiceNumber)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportService_RenderPDF_NotFound(t *testing.T) {
	svc, repo := newExportService(nil)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	var buf bytes.Buffer
	_, err := svc.RenderPDF(context.Background(), id, &buf)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	assert.Zero(t, buf.Len())
}

func TestExportService_Publish(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc, repo := newExportService(storage)
	repo.On("List", mock.Anything).Return(exportFixtures(), nil)

	wantKey := "exports/invoices_20261018T101500Z.csv"
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		body, _ := io.ReadAll(in.Body)
		return in.Bucket == "invoicehub-exports" &&
			in.Key == wantKey &&
			in.ContentType == "text/csv; charset=utf-8" &&
			bytes.HasPrefix(body, csvexport.BOM)
	})).Return(&port.UploadOutput{Location: "https://s3/" + wantKey}, nil)
	storage.On("GetPresignedURL", mock.Anything, "invoicehub-exports", wantKey, int64(900)).
		Return("https://signed.example/"+wantKey, nil)

	out, err := svc.Publish(context.Background(), domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, wantKey, out.Key)
	assert.Equal(t, "https://signed.example/"+wantKey, out.URL)
	assert.Equal(t, 2, out.Invoices)
	storage.AssertExpectations(t)
}

func TestExportService_Publish_UploadFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc, repo := newExportService(storage)
	repo.On("List", mock.Anything).Return(exportFixtures(), nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := svc.Publish(context.Background(), domain.ExportFormatXLSX)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportService_Publish_NoStorage(t *testing.T) {
	svc, repo := newExportService(nil)

	_, err := svc.Publish(context.Background(), domain.ExportFormatCSV)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestExportService_Publish_UnknownFormat(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc, _ := newExportService(storage)

	_, err := svc.Publish(context.Background(), domain.ExportFormat("ods"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)
}
