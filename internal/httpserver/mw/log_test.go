package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

func TestLogLevelsAndRoute(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := chi.NewRouter()
	r.Use(Log(logger.FromZap(zap.New(core)), true))
	r.Get("/ok/{id}", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("hi")) })
	r.Get("/gone", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) })

	for _, path := range []string{"/ok/7?token=secret", "/gone", "/boom"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.5")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	ok := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok/7", ok["path"])
	assert.Equal(t, "/ok/{id}", ok["route"])
	assert.Equal(t, int64(200), ok["status"])
	assert.Equal(t, int64(2), ok["bytes"])
	assert.Equal(t, "203.0.113.5", ok["client_ip"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}
