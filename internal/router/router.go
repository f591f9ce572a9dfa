package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicehub/internal/handler"
	"invoicehub/internal/middleware"
)

// Options carries the middleware settings Setup needs from config.
type Options struct {
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	invoiceH *handler.InvoiceHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(middleware.LogOptions{
		Level:     opts.LogLevel,
		Format:    opts.LogFormat,
		SkipPaths: []string{"/healthz", "/readyz"},
	}))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	api := r.Group("/api")
	api.GET("/health", healthH.Liveness)

	invoices := api.Group("/invoices")
	invoices.POST("", invoiceH.Create)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.DELETE("/:id", invoiceH.Delete)
	invoices.GET("/:id/pdf", exportH.InvoicePDF)

	exports := api.Group("/exports")
	exports.GET("/invoices", exportH.Download)
	exports.POST("/invoices", exportH.Publish)

	r.NoRoute(func(c *gin.Context) {
		handler.RespondError(c, http.StatusNotFound, "PATH_NOT_FOUND", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return r
}
