package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"invoicehub/internal/handler"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		pinger stubPinger
		status int
	}{
		{"database up", stubPinger{}, http.StatusOK},
		{"database down", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.pinger)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			h.Readiness(c)

			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{err: errors.New("down")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
