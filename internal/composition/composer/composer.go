// Package composer assembles a multi-section layout for an intent and brand
// from the section catalogue.
package composer

import (
	"context"
	"fmt"
	"strings"

	"brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/common/metrics"
	"brand-content-engine/internal/common/observability"
	"brand-content-engine/internal/composition/policy"
	"brand-content-engine/internal/composition/scorer"
	"brand-content-engine/internal/composition/sections"
	"brand-content-engine/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// AcceptThreshold is the minimum score of a complementary section. The hero
// is exempt.
const AcceptThreshold = 50

type Composer struct {
	finder    sections.Finder
	tables    *policy.Tables
	logger    logger.Logger
	obs       *observability.Observability
	parallel  bool
	threshold int
}

type Option func(*Composer)

// WithPolicy replaces the built-in policy tables.
func WithPolicy(t *policy.Tables) Option {
	return func(c *Composer) { c.tables = t }
}

// WithParallelQueries prefetches every category's candidates concurrently.
// Selection order is unchanged.
func WithParallelQueries(enabled bool) Option {
	return func(c *Composer) { c.parallel = enabled }
}

func WithThreshold(score int) Option {
	return func(c *Composer) { c.threshold = score }
}

func WithObservability(o *observability.Observability) Option {
	return func(c *Composer) { c.obs = o }
}

func New(finder sections.Finder, log logger.Logger, opts ...Option) *Composer {
	c := &Composer{
		finder:    finder,
		tables:    policy.Default(),
		logger:    log.WithFields(map[string]interface{}{"component": "composer"}),
		threshold: AcceptThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tables exposes the policy tables in use.
func (c *Composer) Tables() *policy.Tables {
	return c.tables
}

// Compose selects a hero and the complementary sections of the intent's
// policy. Failed candidate queries count as empty pools; only a cancelled
// context is returned as an error.
func (c *Composer) Compose(ctx context.Context, intent models.UserIntent, dna models.BrandDNA) (*models.ComposedTemplate, error) {
	ctx, span := c.obs.StartSpan(ctx, "composer.compose",
		attribute.String("intent", intent.Primary),
		attribute.StringSlice("platforms", intent.Platform),
	)
	defer span.End()

	platform, rules := c.tables.RulesFor(intent.Platform)
	pol, known := c.tables.PolicyFor(intent.Primary)
	categories := categoriesFor(pol, known)

	pools, err := c.fetch(ctx, intent, pol, categories)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewCompositionFailedError(err)
	}

	out := &models.ComposedTemplate{
		CompositionID:  uuid.NewString(),
		Platform:       platform,
		Intent:         intent.Primary,
		SectionIDs:     []string{},
		ScoreBreakdown: []models.SectionScore{},
	}
	selected := make(map[string]struct{})

	accept := func(s models.Section, score int, reason string) {
		out.SectionIDs = append(out.SectionIDs, s.ID)
		out.Sections = append(out.Sections, s)
		out.TotalHeight += s.Height
		out.ScoreBreakdown = append(out.ScoreBreakdown, models.SectionScore{
			SectionID: s.ID,
			Score:     score,
			Reason:    reason,
		})
		selected[s.ID] = struct{}{}
		metrics.CompositionSections.WithLabelValues(s.Category).Inc()
	}

	if rules.MaxSections >= 1 {
		if best, score, ok := pickBest(pools[0], intent, dna, selected); ok {
			accept(best, score, reasonFor("hero", best, intent, dna, len(pools[0])))
		} else {
			c.logger.Info("no hero candidate", map[string]interface{}{"intent": intent.Primary, "platform": platform})
		}
	}

	for i, category := range categories[1:] {
		if len(out.SectionIDs) >= rules.MaxSections {
			break
		}
		pool := pools[i+1]
		best, score, ok := pickBest(pool, intent, dna, selected)
		if !ok {
			continue
		}
		if score < c.threshold {
			c.logger.Debug("top candidate below threshold", map[string]interface{}{
				"category":  category,
				"sectionId": best.ID,
				"score":     score,
			})
			continue
		}
		accept(best, score, reasonFor(category, best, intent, dna, len(pool)))
	}

	out.CompositionStrategy = c.strategy(intent, pol, known, platform, rules, len(out.SectionIDs))

	span.SetAttributes(
		attribute.String("composition_id", out.CompositionID),
		attribute.Int("sections", len(out.SectionIDs)),
		attribute.Int("total_height", out.TotalHeight),
	)
	c.logger.Info("template composed", map[string]interface{}{
		"compositionId": out.CompositionID,
		"intent":        intent.Primary,
		"platform":      platform,
		"sections":      out.SectionIDs,
		"totalHeight":   out.TotalHeight,
	})
	return out, nil
}

// categoriesFor puts hero first, then the policy's other categories in table
// order without repeats.
func categoriesFor(pol policy.Policy, known bool) []string {
	out := []string{policy.HeroCategory}
	if !known {
		return out
	}
	seen := map[string]struct{}{policy.HeroCategory: {}}
	for _, cat := range pol.PreferredCategories {
		n := strings.ToLower(strings.TrimSpace(cat))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (c *Composer) queryFor(intent models.UserIntent, pol policy.Policy, category string) sections.SectionQuery {
	q := sections.SectionQuery{
		Category:  category,
		Platforms: intent.Platform,
	}
	if category == policy.HeroCategory {
		hints := append([]string{intent.Primary}, intent.Secondary...)
		q.IntentKeywords = append(hints, pol.Tags...)
	}
	return q
}

// fetch returns one candidate pool per category, index-aligned.
func (c *Composer) fetch(ctx context.Context, intent models.UserIntent, pol policy.Policy, categories []string) ([][]models.Section, error) {
	pools := make([][]models.Section, len(categories))

	if !c.parallel {
		for i, category := range categories {
			pool, err := c.find(ctx, intent, pol, category)
			if err != nil {
				return nil, err
			}
			pools[i] = pool
		}
		return pools, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			pool, err := c.find(gctx, intent, pol, category)
			if err != nil {
				return err
			}
			pools[i] = pool
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pools, nil
}

// find runs one category query. Query failures are logged and yield an empty
// pool unless the context is done. A hero query whose hints match nothing is
// retried on the category alone.
func (c *Composer) find(ctx context.Context, intent models.UserIntent, pol policy.Policy, category string) ([]models.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := c.queryFor(intent, pol, category)
	pool, err := c.finder.FindSections(ctx, q)
	if err == nil && len(pool) == 0 && category == policy.HeroCategory && len(q.IntentKeywords) > 0 {
		q.IntentKeywords = nil
		pool, err = c.finder.FindSections(ctx, q)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		metrics.CompositionQueryErrors.WithLabelValues(category).Inc()
		c.logger.Warn("section query failed, treating pool as empty", map[string]interface{}{
			"category": category,
			"error":    errors.NewSectionQueryFailedError(category, err).Details,
		})
		return nil, nil
	}
	return pool, nil
}

// pickBest returns the strictly highest scoring candidate not yet selected.
// Ties keep the earlier candidate.
func pickBest(pool []models.Section, intent models.UserIntent, dna models.BrandDNA, selected map[string]struct{}) (models.Section, int, bool) {
	var (
		best      models.Section
		bestScore = -1
	)
	for _, s := range pool {
		if _, dup := selected[s.ID]; dup {
			continue
		}
		if score := scorer.Score(s, intent, dna); score > bestScore {
			best, bestScore = s, score
		}
	}
	return best, bestScore, bestScore >= 0
}

func reasonFor(role string, s models.Section, intent models.UserIntent, dna models.BrandDNA, candidates int) string {
	b := scorer.Explain(s, intent, dna)
	return fmt.Sprintf("%s: best of %d candidates (keywords %.1f, archetype %.0f, industry %.0f, platform %.1f, tone %.0f)",
		role, candidates, b.Keywords, b.Archetype, b.Industry, b.Platform, b.Tone)
}

func (c *Composer) strategy(intent models.UserIntent, pol policy.Policy, known bool, platform string, rules models.CompositionRules, selected int) string {
	if !known {
		return fmt.Sprintf("hero-only: unknown intent %q on %s (%d of max %d sections)",
			intent.Primary, platform, selected, rules.MaxSections)
	}
	return fmt.Sprintf("%s on %s: hero then %s at score >= %d, %s tone (%d of max %d sections)",
		intent.Primary, platform, strings.Join(pol.PreferredCategories, ","), c.threshold, pol.Tone,
		selected, rules.MaxSections)
}
