// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/composition/composer"
	"brand-content-engine/internal/composition/sections"
	"brand-content-engine/internal/content/genai"
	"brand-content-engine/internal/content/matrix"
	"brand-content-engine/internal/content/store"
	"brand-content-engine/internal/models"
	"brand-content-engine/pkg/registry"

	generatecontentmatrix "brand-content-engine/internal/workers/content/generate-content-matrix"
	resolvetemplatevariables "brand-content-engine/internal/workers/content/resolve-template-variables"

	composetemplate "brand-content-engine/internal/workers/composition/compose-template"
	scoresection "brand-content-engine/internal/workers/composition/score-section"
	validatecomposition "brand-content-engine/internal/workers/composition/validate-composition"
)

func generatedMatrix() map[string]interface{} {
	list := func(items ...string) []string { return items }
	return map[string]interface{}{
		"headlines":      list("Launch Day Is Here", "Meet the Future"),
		"subheadlines":   list("Built for builders"),
		"body_text":      list("Our new device changes everything."),
		"ctas":           list("Pre-order now"),
		"quotes":         list("Best launch of the year"),
		"hashtags":       list("#launch", "#tech", "#future", "#extra"),
		"features":       list("Fast charging"),
		"benefits":       list("Save hours every week"),
		"statistics":     list("10x faster"),
		"questions":      list("Ready to upgrade?"),
		"dates":          list("June 1"),
		"prices":         list("$199"),
		"steps":          list("Unbox it"),
		"locations":      list("Online"),
		"contact_info":   list("hello@acme.test"),
		"image_keywords": list("sleek device"),
		"visual_style":   "bold futuristic",
	}
}

// newGenAIServer serves a fixed matrix and counts calls.
func newGenAIServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/api/ai/generate-structured", r.URL.Path)

		var req genai.StructuredRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, matrix.SchemaName, req.SchemaName)
		assert.Contains(t, req.Prompt, "Acme Devices")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    generatedMatrix(),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newMatrixService(t *testing.T, baseURL string) (*matrix.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gen := genai.NewClient(&genai.Config{BaseURL: baseURL, MaxTokens: 3000, Temperature: 0.8})
	svc, err := matrix.NewService(store.NewRedisStore(rdb, time.Hour), gen, logger.NewTestLogger(t), matrix.WithSingleFlight())
	require.NoError(t, err)
	return svc, mr
}

func TestContentPipeline_GenerateOnceResolveMany(t *testing.T) {
	var calls int32
	srv := newGenAIServer(t, &calls)
	svc, mr := newMatrixService(t, srv.URL)
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	generate := generatecontentmatrix.NewHandler(generatecontentmatrix.LoadConfig(), svc, log)
	input := &generatecontentmatrix.Input{BrandID: "acme", BrandContext: "Acme Devices builds smart gadgets"}

	first, err := generate.Execute(ctx, input)
	require.NoError(t, err)
	assert.True(t, first.Generated)
	assert.True(t, mr.Exists("content:matrix:acme"))

	second, err := generate.Execute(ctx, input)
	require.NoError(t, err)
	assert.False(t, second.Generated)
	assert.Equal(t, first.ContentMatrix, second.ContentMatrix)

	resolveCfg := resolvetemplatevariables.LoadConfig()
	resolveCfg.Seed = 42
	resolve := resolvetemplatevariables.NewHandler(resolveCfg, svc, log)

	templates := []models.VariableSchema{
		{"headline": {}, "cta_text": {}, "hero_image": {Type: "image"}},
		{"product_image": {}, "price": {}, "accentColor": {}, "hashtags": {}},
		{"company_name": {}, "event_date": {}, "faq": {}, "mystery": {Type: "number"}},
	}
	pool := models.ImagePool{
		Logo:     "https://cdn.test/logo.png",
		General:  []string{"https://cdn.test/general.png"},
		Products: []string{"https://cdn.test/product.png"},
	}

	for _, schema := range templates {
		out, err := resolve.Execute(ctx, &resolvetemplatevariables.Input{
			BrandID:        "acme",
			BrandName:      "Acme Devices",
			VariableSchema: schema,
			ImagePool:      pool,
			IncludeTrace:   true,
		})
		require.NoError(t, err)

		require.Len(t, out.Bindings, len(schema))
		for key := range schema {
			assert.Contains(t, out.Bindings, key)
			assert.Contains(t, out.RuleTrace, key)
		}
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "N templates cost one generation")

	out, err := resolve.Execute(ctx, &resolvetemplatevariables.Input{
		BrandID:        "acme",
		BrandName:      "Acme Devices",
		VariableSchema: templates[1],
		ImagePool:      pool,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/product.png", out.Bindings["product_image"])
	assert.Equal(t, "$199", out.Bindings["price"])
	assert.Equal(t, "var(--brand-accent)", out.Bindings["accentColor"])
	assert.Equal(t, "#launch #tech #future", out.Bindings["hashtags"])
	assert.Equal(t, []string{}, out.UnresolvedKeys)
}

func TestContentPipeline_ForceRegenerate(t *testing.T) {
	var calls int32
	srv := newGenAIServer(t, &calls)
	svc, _ := newMatrixService(t, srv.URL)

	generate := generatecontentmatrix.NewHandler(generatecontentmatrix.LoadConfig(), svc, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := generate.Execute(ctx, &generatecontentmatrix.Input{BrandID: "acme", BrandContext: "Acme Devices"})
	require.NoError(t, err)
	out, err := generate.Execute(ctx, &generatecontentmatrix.Input{BrandID: "acme", BrandContext: "Acme Devices", ForceRegenerate: true})
	require.NoError(t, err)

	assert.True(t, out.Generated)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

var sectionColumns = []string{
	"id", "category", "content_type", "height", "intent_keywords", "brand_archetype_match",
	"industry_fit", "platform_optimized", "emotional_tone", "conversion_goal",
}

func TestCompositionPipeline_ProductLaunchOnInstagram(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	row := func(id, category string, height int) []driver.Value {
		return []driver.Value{id, category, "", height, "{product-launch}", "{hero}", "{tech}", "{instagram}", "{bold}", "purchase"}
	}

	mock.ExpectQuery("FROM layout_sections").
		WithArgs("hero", sqlmock.AnyArg(), sqlmock.AnyArg(), sections.DefaultLimit).
		WillReturnRows(sqlmock.NewRows(sectionColumns).
			AddRow(row("hero-a", "hero", 500)...).
			AddRow(row("hero-b", "hero", 450)...))
	mock.ExpectQuery("FROM layout_sections").
		WithArgs("product", sqlmock.AnyArg(), sections.DefaultLimit).
		WillReturnRows(sqlmock.NewRows(sectionColumns).AddRow(row("product-a", "product", 400)...))
	mock.ExpectQuery("FROM layout_sections").
		WithArgs("bridge", sqlmock.AnyArg(), sections.DefaultLimit).
		WillReturnRows(sqlmock.NewRows(sectionColumns).AddRow(row("bridge-a", "bridge", 200)...))
	mock.ExpectQuery("FROM layout_sections").
		WithArgs("cta", sqlmock.AnyArg(), sections.DefaultLimit).
		WillReturnRows(sqlmock.NewRows(sectionColumns).AddRow(row("cta-a", "cta", 100)...))

	log := logger.NewTestLogger(t)
	comp := composer.New(sections.NewPostgresFinder(db), log)
	handler := composetemplate.NewHandler(composetemplate.LoadConfig(), comp, log)

	out, err := handler.Execute(context.Background(), &composetemplate.Input{
		UserIntent: models.UserIntent{Primary: "product-launch", Platform: []string{"instagram"}},
		BrandDNA:   models.BrandDNA{Archetype: "hero", Industry: "tech", EmotionalTone: []string{"bold"}},
		Validate:   true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	tpl := out.ComposedTemplate
	assert.Equal(t, []string{"hero-a", "product-a", "bridge-a"}, tpl.SectionIDs)
	assert.Equal(t, 1100, tpl.TotalHeight)
	require.Len(t, tpl.ScoreBreakdown, 3)
	assert.Equal(t, 68, tpl.ScoreBreakdown[0].Score)

	require.NotNil(t, out.Validation)
	assert.True(t, out.Validation.IsValid)

	validate := validatecomposition.NewHandler(validatecomposition.LoadConfig(), comp.Tables(), log)
	report, err := validate.Execute(context.Background(), &validatecomposition.Input{
		Sections: tpl.Sections,
		Platform: tpl.Platform,
	})
	require.NoError(t, err)
	assert.Equal(t, *out.Validation, report.Validation)

	score := scoresection.NewHandler(scoresection.LoadConfig(), log)
	scored, err := score.Execute(context.Background(), &scoresection.Input{
		Sections:   tpl.Sections,
		UserIntent: models.UserIntent{Primary: "product-launch", Platform: []string{"instagram"}},
		BrandDNA:   models.BrandDNA{Archetype: "hero", Industry: "tech", EmotionalTone: []string{"bold"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hero-a", scored.BestSectionID)
	for i, s := range scored.Scores {
		assert.Equal(t, tpl.ScoreBreakdown[i].Score, s.Score)
	}
}

func TestJobVariables_MatchRegistrySchemas(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)
	v, err := registry.NewValidator(reg)
	require.NoError(t, err)

	valid := map[string]string{
		generatecontentmatrix.TaskType:    `{"brandId":"acme","brandContext":"Acme Devices"}`,
		resolvetemplatevariables.TaskType: `{"brandId":"acme","variableSchema":{"headline":{}}}`,
		scoresection.TaskType:             `{"sections":[{"id":"s1"}],"userIntent":{"primary":"product-launch"}}`,
		composetemplate.TaskType:          `{"userIntent":{"primary":"product-launch","platform":["instagram"]}}`,
		validatecomposition.TaskType:      `{"sections":[],"platform":"instagram"}`,
	}
	for taskType, vars := range valid {
		violations, err := v.Validate(taskType, []byte(vars))
		require.NoError(t, err, taskType)
		assert.Empty(t, violations, taskType)
	}

	violations, err := v.Validate(resolvetemplatevariables.TaskType, []byte(`{"variableSchema":{}}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations, "needs brandId or contentMatrix")
}
