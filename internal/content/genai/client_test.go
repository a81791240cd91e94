package genai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = map[string]interface{}{"type": "object"}

func newTestClient(url string) *Client {
	return NewClient(&Config{BaseURL: url + "/", APIKey: "k-1", MaxTokens: 3000, Temperature: 0.8})
}

func TestGenerateStructured_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate-structured", r.URL.Path)
		assert.Equal(t, "Bearer k-1", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		var req StructuredRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "write copy", req.Prompt)
		assert.Equal(t, "content_matrix", req.SchemaName)
		assert.Equal(t, 3000, req.MaxTokens)
		assert.Equal(t, 0.8, req.Temperature)
		assert.Equal(t, "object", req.Schema["type"])

		_, _ = w.Write([]byte(`{"success":true,"data":{"headlines":["Hi"]}}`))
	}))
	defer srv.Close()

	data, err := newTestClient(srv.URL).GenerateStructured(context.Background(), "write copy", "content_matrix", testSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"headlines":["Hi"]}`, string(data))
}

func TestGenerateStructured_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"backend reported failure", http.StatusOK, `{"success":false,"error":"quota"}`},
		{"missing data", http.StatusOK, `{"success":true}`},
		{"null data", http.StatusOK, `{"data":null}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).GenerateStructured(context.Background(), "p", "s", testSchema)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retries")
		})
	}
}

func TestGenerateStructured_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// r.Context() when the client gives up.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).GenerateStructured(ctx, "p", "s", testSchema)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
