package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Registering a static and a wildcard segment at the same position panics
// inside httprouter, so a bad route table would take the server down before
// it ever listens. Building the router here catches that without a database.
func TestRoutes(t *testing.T) {
	app := &application{
		config: &Config{Environment: "test", Version: "1.0.0"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	var handler http.Handler
	assert.NotPanics(t, func() {
		handler = app.routes()
	})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}
