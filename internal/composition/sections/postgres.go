package sections

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"brand-content-engine/internal/models"

	"github.com/lib/pq"
)

const selectSectionsSQL = `SELECT id, category, content_type, height, intent_keywords, brand_archetype_match,
industry_fit, platform_optimized, emotional_tone, conversion_goal
FROM layout_sections`

// PostgresFinder reads candidates from the layout_sections table.
type PostgresFinder struct {
	db *sql.DB
}

func NewPostgresFinder(db *sql.DB) *PostgresFinder {
	return &PostgresFinder{db: db}
}

func (f *PostgresFinder) FindSections(ctx context.Context, q SectionQuery) ([]models.Section, error) {
	query, args := buildSectionsQuery(q)

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sections %s: %w", q.Category, err)
	}
	defer rows.Close()

	var out []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(
			&s.ID,
			&s.Category,
			&s.ContentType,
			&s.Height,
			pq.Array(&s.IntentKeywords),
			pq.Array(&s.BrandArchetypeMatch),
			pq.Array(&s.IndustryFit),
			pq.Array(&s.PlatformOptimized),
			pq.Array(&s.EmotionalTone),
			&s.ConversionGoal,
		); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections %s: %w", q.Category, err)
	}
	return out, nil
}

// buildSectionsQuery renders the WHERE clause for the non-empty filters.
// Array filters use the && overlap operator.
func buildSectionsQuery(q SectionQuery) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if c := normalize(q.Category); c != "" {
		add("category = $%d", c)
	}
	if ct := normalize(q.ContentType); ct != "" {
		add("content_type = $%d", ct)
	}
	if g := normalize(q.ConversionGoal); g != "" {
		add("conversion_goal = $%d", g)
	}
	if kw := normalizeList(q.IntentKeywords); len(kw) > 0 {
		add("intent_keywords && $%d", pq.Array(kw))
	}
	if pf := normalizeList(q.Platforms); len(pf) > 0 {
		add("platform_optimized && $%d", pq.Array(pf))
	}

	var sb strings.Builder
	sb.WriteString(selectSectionsSQL)
	if len(conds) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	args = append(args, q.limit())
	sb.WriteString(fmt.Sprintf("\nORDER BY id\nLIMIT $%d", len(args)))
	return sb.String(), args
}
