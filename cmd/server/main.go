package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"invoicehub/internal/config"
	"invoicehub/internal/handler"
	"invoicehub/internal/port"
	"invoicehub/internal/repository/postgres"
	"invoicehub/internal/router"
	"invoicehub/internal/service"
	s3storage "invoicehub/internal/storage/s3"
	"invoicehub/internal/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.IsProduction() || cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)

	// Initialize storage. Exports can still be downloaded without it.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Println("S3 bucket not configured; publishing exports is disabled")
	}

	// Initialize services
	invoiceSvc := service.NewInvoiceService(invoiceRepo, validator.NewDefaultEngine())
	exportSvc := service.NewExportService(invoiceRepo, storage, &cfg.S3, &cfg.Export, time.Now)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		LogLevel:       cfg.Log.Level,
		LogFormat:      cfg.Log.Format,
	}, invoiceH, exportH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (%s)", cfg.Server.Port, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
