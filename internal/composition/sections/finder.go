// Package sections queries layout section candidates for the composer.
package sections

import (
	"context"
	"strings"

	"brand-content-engine/internal/models"
)

// DefaultLimit caps the candidates returned for one query.
const DefaultLimit = 25

// SectionQuery filters candidates. Empty fields do not filter. List filters
// match when the section shares at least one value.
type SectionQuery struct {
	Category       string
	ContentType    string
	ConversionGoal string
	IntentKeywords []string
	Platforms      []string
	Limit          int
}

// Finder returns candidates in a stable order. The composer breaks score
// ties by that order.
type Finder interface {
	FindSections(ctx context.Context, q SectionQuery) ([]models.Section, error)
}

func (q SectionQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// normalizeList lower-cases, trims and drops empty values. Section
// attributes are stored lower-case.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := strings.ToLower(strings.TrimSpace(v)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
