// Package genai talks to the structured text-generation backend.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	commonhttp "brand-content-engine/internal/common/http"

	"github.com/google/uuid"
)

const structuredPath = "/api/ai/generate-structured"

var (
	ErrGenerationFailed = errors.New("GENERATION_FAILED")
	ErrEmptyResponse    = errors.New("generation backend returned no data")
)

// Config configures Client. It has no timeout; callers bound the call
// through the context.
type Config struct {
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
}

// StructuredRequest is the wire body of a schema-constrained generation call.
type StructuredRequest struct {
	Prompt      string                 `json:"prompt"`
	SchemaName  string                 `json:"schemaName"`
	Schema      map[string]interface{} `json:"schema"`
	MaxTokens   int                    `json:"max_tokens"`
	Temperature float64                `json:"temperature"`
}

type structuredResponse struct {
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// Client issues exactly one request per call and never retries.
type Client struct {
	config *Config
	http   *commonhttp.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		http:   commonhttp.NewClient(0),
	}
}

// GenerateStructured asks the backend for an object matching schema and
// returns the raw data object. Every failure wraps ErrGenerationFailed.
func (c *Client) GenerateStructured(ctx context.Context, prompt, schemaName string, schema map[string]interface{}) (json.RawMessage, error) {
	req := StructuredRequest{
		Prompt:      prompt,
		SchemaName:  schemaName,
		Schema:      schema,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	headers := map[string]string{"X-Request-ID": uuid.NewString()}
	if c.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.config.APIKey
	}

	var resp structuredResponse
	url := strings.TrimRight(c.config.BaseURL, "/") + structuredPath
	if err := c.http.PostJSON(ctx, url, headers, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if resp.Success != nil && !*resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "backend reported failure"
		}
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, msg)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, ErrEmptyResponse)
	}
	return resp.Data, nil
}
