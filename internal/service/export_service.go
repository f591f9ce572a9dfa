package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	"invoicehub/internal/config"
	"invoicehub/internal/csvexport"
	"invoicehub/internal/domain"
	"invoicehub/internal/pdfrender"
	"invoicehub/internal/port"
	"invoicehub/internal/xlsxexport"
)

// PublishedExport describes an export uploaded to object storage.
type PublishedExport struct {
	Key      string              `json:"key"`
	URL      string              `json:"url"`
	Format   domain.ExportFormat `json:"format"`
	Invoices int                 `json:"invoices"`
}

// ExportService renders invoices to downloadable documents.
type ExportService interface {
	Write(ctx context.Context, format domain.ExportFormat, w io.Writer) (int, error)
	RenderPDF(ctx context.Context, id uuid.UUID, w io.Writer) (*domain.Invoice, error)
	Publish(ctx context.Context, format domain.ExportFormat) (*PublishedExport, error)
}

type exportService struct {
	repo      port.InvoiceRepository
	storage   port.ObjectStorage
	s3Cfg     *config.S3Config
	exportCfg *config.ExportConfig
	now       func() time.Time
}

// NewExportService creates a new ExportService. storage may be nil, in which case
// Publish reports ErrUploadFailed.
func NewExportService(
	repo port.InvoiceRepository,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
	exportCfg *config.ExportConfig,
	now func() time.Time,
) ExportService {
	if now == nil {
		now = time.Now
	}
	return &exportService{repo: repo, storage: storage, s3Cfg: s3Cfg, exportCfg: exportCfg, now: now}
}

// Write renders every invoice, newest first, and returns how many were written.
func (s *exportService) Write(ctx context.Context, format domain.ExportFormat, w io.Writer) (int, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := render(format, w, invoices); err != nil {
		return 0, err
	}
	return len(invoices), nil
}

func render(format domain.ExportFormat, w io.Writer, invoices []domain.Invoice) error {
	switch format {
	case domain.ExportFormatCSV:
		cw := csvexport.NewWriter(w)
		if err := cw.WriteHeader(); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
		if err := cw.WriteInvoices(invoices); err != nil {
			return fmt.Errorf("writing csv rows: %w", err)
		}
		cw.Flush()
		return cw.Error()
	case domain.ExportFormatXLSX:
		return xlsxexport.Write(w, invoices)
	default:
		return domain.ErrUnsupportedExportFormat
	}
}

func (s *exportService) RenderPDF(ctx context.Context, id uuid.UUID, w io.Writer) (*domain.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pdfrender.Render(w, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *exportService) Publish(ctx context.Context, format domain.ExportFormat) (*PublishedExport, error) {
	if _, ok := domain.ExportContentTypes[format]; !ok {
		return nil, domain.ErrUnsupportedExportFormat
	}
	if s.storage == nil {
		return nil, fmt.Errorf("no object storage configured: %w", domain.ErrUploadFailed)
	}

	var buf bytes.Buffer
	count, err := s.Write(ctx, format, &buf)
	if err != nil {
		return nil, err
	}

	key := s.objectKey(format)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        &buf,
		ContentType: domain.ExportContentTypes[format],
	}); err != nil {
		log.Printf("exportService.Publish: upload of %s failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, key, s.s3Cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	log.Printf("exportService.Publish: uploaded %d invoices to s3://%s/%s", count, s.s3Cfg.Bucket, key)
	return &PublishedExport{Key: key, URL: url, Format: format, Invoices: count}, nil
}

func (s *exportService) objectKey(format domain.ExportFormat) string {
	name := fmt.Sprintf("invoices_%s.%s", s.now().UTC().Format("20060102T150405Z"), format)
	return path.Join(s.exportCfg.KeyPrefix, name)
}
