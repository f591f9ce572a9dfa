package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicehub/internal/domain"
	"invoicehub/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
// WriteFn and RenderFn, when set, receive the writer so tests can emit a body.
type MockExportService struct {
	mock.Mock
	WriteFn  func(w io.Writer)
	RenderFn func(w io.Writer)
}

func (m *MockExportService) Write(ctx context.Context, format domain.ExportFormat, w io.Writer) (int, error) {
	args := m.Called(ctx, format, w)
	if m.WriteFn != nil && args.Error(1) == nil {
		m.WriteFn(w)
	}
	return args.Int(0), args.Error(1)
}

func (m *MockExportService) RenderPDF(ctx context.Context, id uuid.UUID, w io.Writer) (*domain.Invoice, error) {
	args := m.Called(ctx, id, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if m.RenderFn != nil {
		m.RenderFn(w)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockExportService) Publish(ctx context.Context, format domain.ExportFormat) (*service.PublishedExport, error) {
	args := m.Called(ctx, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishedExport), args.Error(1)
}
