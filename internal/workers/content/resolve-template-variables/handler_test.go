// internal/workers/content/resolve-template-variables/handler_test.go
package resolvetemplatevariables

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	apperrors "brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	matrices map[string]*models.ContentMatrix
	calls    int
}

func (f *fakeReader) Get(_ context.Context, brandID string) (*models.ContentMatrix, error) {
	f.calls++
	if m, ok := f.matrices[brandID]; ok {
		return m, nil
	}
	return nil, apperrors.NewMatrixNotFoundError(brandID)
}

func newTestHandler(t *testing.T, r *fakeReader) *Handler {
	cfg := LoadConfig()
	cfg.Seed = 7
	return NewHandler(cfg, r, logger.NewTestLogger(t))
}

func decodeInput(t *testing.T, raw string) *Input {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return &in
}

func TestExecute_InlineMatrix(t *testing.T) {
	reader := &fakeReader{}
	h := newTestHandler(t, reader)

	input := decodeInput(t, `{
		"variableSchema": {"headline": {}, "cta_text": {}, "hero_image": {"type": "image"}},
		"contentMatrix": {"headlines": ["Buy Now"], "ctas": ["Shop"]},
		"imagePool": {"general": ["https://x/img.png"]}
	}`)

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.Bindings{
		"headline":   "Buy Now",
		"cta_text":   "Shop",
		"hero_image": "https://x/img.png",
	}, out.Bindings)
	assert.Equal(t, []string{}, out.UnresolvedKeys)
	assert.Nil(t, out.RuleTrace)
	assert.Zero(t, reader.calls)
}

func TestExecute_LoadsStoredMatrix(t *testing.T) {
	reader := &fakeReader{matrices: map[string]*models.ContentMatrix{
		"brand-1": {Headlines: []string{"Stored headline"}},
	}}
	h := newTestHandler(t, reader)

	out, err := h.Execute(context.Background(), &Input{
		BrandID:        "brand-1",
		BrandName:      "Acme",
		VariableSchema: models.VariableSchema{"title": {}, "brand_name": {}, "mystery": {Type: "number"}},
		IncludeTrace:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Stored headline", out.Bindings["title"])
	assert.Equal(t, "Acme", out.Bindings["brand_name"])
	assert.Equal(t, "{{mystery}}", out.Bindings["mystery"])
	assert.Equal(t, []string{"mystery"}, out.UnresolvedKeys)
	assert.Equal(t, "headline", out.RuleTrace["title"])
	assert.Equal(t, "fallback", out.RuleTrace["mystery"])
	assert.Equal(t, 1, reader.calls)
}

func TestExecute_Errors(t *testing.T) {
	h := newTestHandler(t, &fakeReader{})

	_, err := h.Execute(context.Background(), &Input{})
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)

	_, err = h.Execute(context.Background(), &Input{VariableSchema: models.VariableSchema{"x": {}}})
	stdErr, ok = apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)

	_, err = h.Execute(context.Background(), &Input{BrandID: "ghost", VariableSchema: models.VariableSchema{"x": {}}})
	stdErr, ok = apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeMatrixNotFound, stdErr.Code)
}

func TestExecute_EmptySchemaYieldsEmptyBindings(t *testing.T) {
	h := newTestHandler(t, &fakeReader{})

	out, err := h.Execute(context.Background(), &Input{
		VariableSchema: models.VariableSchema{},
		ContentMatrix:  &models.ContentMatrix{},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Bindings)
	assert.Equal(t, []string{}, out.UnresolvedKeys)
}

func TestExecute_ConcurrentJobsWithSeed(t *testing.T) {
	cfg := LoadConfig()
	cfg.Seed = 42
	h := NewHandler(cfg, &fakeReader{}, logger.NewTestLogger(t))

	input := &Input{
		VariableSchema: models.VariableSchema{"headline": {}, "cta_text": {}, "quote": {}, "body": {}},
		ContentMatrix: &models.ContentMatrix{
			Headlines: []string{"H1", "H2", "H3", "H4"},
			CTAs:      []string{"C1", "C2", "C3"},
			Quotes:    []string{"Q1", "Q2", "Q3"},
			BodyText:  []string{"B1", "B2", "B3", "B4", "B5"},
		},
	}

	want, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	const goroutines, calls = 8, 200
	var wg sync.WaitGroup
	errs := make(chan error, goroutines*calls)
	mismatches := make(chan models.Bindings, goroutines*calls)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				out, err := h.Execute(context.Background(), input)
				if err != nil {
					errs <- err
					continue
				}
				if !assert.ObjectsAreEqual(want.Bindings, out.Bindings) {
					mismatches <- out.Bindings
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	close(mismatches)

	for err := range errs {
		t.Errorf("execute: %v", err)
	}
	for got := range mismatches {
		t.Errorf("seeded bindings differ: got %v want %v", got, want.Bindings)
	}
}
