package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/infinito/platform/internal/middlewares"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel zap.AtomicLevel
	}{
		{name: "ok is logged at info", status: http.StatusOK, expectedLevel: zap.NewAtomicLevelAt(zap.InfoLevel)},
		{name: "server error is logged at warn", status: http.StatusInternalServerError, expectedLevel: zap.NewAtomicLevelAt(zap.WarnLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			logger := zap.New(core)

			handler := middlewares.RequestIDMiddleware(LoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/sidebar?x=1", nil)
			req.Header.Set("X-Request-ID", "req-1")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, "HTTP request", entry.Message)
			assert.Equal(t, tt.expectedLevel.Level(), entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "req-1", fields["request_id"])
			assert.Equal(t, "/api/v1/offers/sidebar", fields["path"])
			assert.Equal(t, int64(tt.status), fields["status"])
		})
	}
}
