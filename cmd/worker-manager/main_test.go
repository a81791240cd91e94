package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpsServer_Health(t *testing.T) {
	srv := newOpsServer(":0", nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestOpsServer_Ready(t *testing.T) {
	ok := readinessCheck{"redis", func(context.Context) error { return nil }}
	down := readinessCheck{"postgres", func(context.Context) error { return errors.New("connection refused") }}

	rec := httptest.NewRecorder()
	newOpsServer(":0", []readinessCheck{ok}).Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newOpsServer(":0", []readinessCheck{ok, down}).Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Failed map[string]string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, map[string]string{"postgres": "connection refused"}, body.Failed)
}

func TestOpsServer_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newOpsServer(":0", nil).Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRetryWithBackoff(t *testing.T) {
	log := zaptest.NewLogger(t)

	attempts := 0
	err := retryWithBackoff(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	err = retryWithBackoff(func() error { return errors.New("down") }, 2, time.Millisecond, log, "broken")
	assert.ErrorContains(t, err, "broken failed after 2 attempts: down")
}
