package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "-" outside of it.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(requestIDKey); id != "" {
		return id
	}
	return "-"
}

// LogOptions controls request logging. Level is one of debug, info, warn or
// error; warn logs only 4xx and 5xx responses, error only 5xx. Format is
// "console" for text lines or "json" for one JSON object per line.
type LogOptions struct {
	Level     string
	Format    string
	SkipPaths []string
}

type requestLine struct {
	RequestID string `json:"request_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

func minStatus(level string) int {
	switch level {
	case "warn":
		return http.StatusBadRequest
	case "error":
		return http.StatusInternalServerError
	default:
		return 0
	}
}

// Logger logs each HTTP request with method, path, status, and latency.
// Health endpoints listed in SkipPaths are not logged.
func Logger(opts LogOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}
	threshold := minStatus(opts.Level)
	asJSON := opts.Format == "json"

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}
		status := c.Writer.Status()
		if status < threshold {
			return
		}
		if asJSON {
			line, err := json.Marshal(requestLine{
				RequestID: GetRequestID(c),
				Method:    c.Request.Method,
				Path:      c.Request.URL.Path,
				Status:    status,
				LatencyMS: time.Since(start).Milliseconds(),
			})
			if err == nil {
				log.Print(string(line))
			}
			return
		}
		log.Printf("[%s] %s %s %d %s",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			status,
			time.Since(start),
		)
	}
}

// Recovery turns a panic into a 500 INTERNAL_ERROR envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[%s] panic: %v\n%s", GetRequestID(c), r, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "an internal error occurred",
					},
				})
			}
		}()
		c.Next()
	}
}
