// internal/workers/composition/compose-template/handler_test.go
package composetemplate

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/composition/composer"
	"brand-content-engine/internal/composition/sections"
	"brand-content-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogue() []models.Section {
	base := models.Section{
		IntentKeywords:      []string{"product-launch"},
		BrandArchetypeMatch: []string{"hero"},
		IndustryFit:         []string{"tech"},
		PlatformOptimized:   []string{"instagram"},
	}
	var out []models.Section
	for i, cat := range []string{"hero", "product", "bridge", "cta"} {
		s := base
		s.ID = cat + "-1"
		s.Category = cat
		s.Height = 300 + i*100
		out = append(out, s)
	}
	return out
}

func newTestHandler(t *testing.T, cfg *Config) *Handler {
	log := logger.NewTestLogger(t)
	c := composer.New(sections.NewMemoryFinder(catalogue()), log)
	return NewHandler(cfg, c, log)
}

func TestExecute_ComposesAndValidates(t *testing.T) {
	h := newTestHandler(t, LoadConfig())

	out, err := h.Execute(context.Background(), &Input{
		UserIntent: models.UserIntent{Primary: "product-launch", Platform: []string{"instagram"}},
		BrandDNA:   models.BrandDNA{Archetype: "hero", Industry: "tech"},
		Validate:   true,
	})
	require.NoError(t, err)

	tpl := out.ComposedTemplate
	assert.Equal(t, []string{"hero-1", "product-1", "bridge-1"}, tpl.SectionIDs)
	assert.Equal(t, 1200, tpl.TotalHeight)

	require.NotNil(t, out.Validation)
	assert.True(t, out.Validation.IsValid)
	assert.Empty(t, out.Validation.Errors)
}

func TestExecute_ValidationReportsBudgetOverrun(t *testing.T) {
	cfg := LoadConfig()
	cfg.AlwaysValidate = true
	log := logger.NewTestLogger(t)

	tall := catalogue()
	for i := range tall {
		tall[i].Height = 1000
	}
	h := NewHandler(cfg, composer.New(sections.NewMemoryFinder(tall), log), log)

	out, err := h.Execute(context.Background(), &Input{
		UserIntent: models.UserIntent{Primary: "product-launch", Platform: []string{"instagram"}},
		BrandDNA:   models.BrandDNA{Archetype: "hero", Industry: "tech"},
	})
	require.NoError(t, err)

	require.NotNil(t, out.Validation)
	assert.False(t, out.Validation.IsValid)
	assert.Equal(t, []string{"total height 3000 exceeds budget 1350"}, out.Validation.Errors)
}

func TestExecute_WithoutValidation(t *testing.T) {
	h := newTestHandler(t, LoadConfig())

	out, err := h.Execute(context.Background(), &Input{
		UserIntent: models.UserIntent{Primary: "product-launch"},
	})
	require.NoError(t, err)
	assert.Nil(t, out.Validation)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"validation"`)
	assert.NotContains(t, string(raw), `"Sections"`)
}

func TestExecute_MissingPrimary(t *testing.T) {
	h := newTestHandler(t, LoadConfig())

	_, err := h.Execute(context.Background(), &Input{})
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
}
