package sections

import (
	"context"

	"brand-content-engine/internal/models"
)

// MemoryFinder filters a fixed catalogue in its original order.
type MemoryFinder struct {
	catalogue []models.Section
}

func NewMemoryFinder(catalogue []models.Section) *MemoryFinder {
	return &MemoryFinder{catalogue: catalogue}
}

func (f *MemoryFinder) FindSections(ctx context.Context, q SectionQuery) ([]models.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	category := normalize(q.Category)
	contentType := normalize(q.ContentType)
	goal := normalize(q.ConversionGoal)
	keywords := normalizeList(q.IntentKeywords)
	platforms := normalizeList(q.Platforms)

	var out []models.Section
	for _, s := range f.catalogue {
		if category != "" && normalize(s.Category) != category {
			continue
		}
		if contentType != "" && normalize(s.ContentType) != contentType {
			continue
		}
		if goal != "" && normalize(s.ConversionGoal) != goal {
			continue
		}
		if len(keywords) > 0 && !overlaps(s.IntentKeywords, keywords) {
			continue
		}
		if len(platforms) > 0 && !overlaps(s.PlatformOptimized, platforms) {
			continue
		}
		out = append(out, s)
		if len(out) == q.limit() {
			break
		}
	}
	return out, nil
}

func overlaps(have, want []string) bool {
	for _, h := range have {
		n := normalize(h)
		for _, w := range want {
			if n == w {
				return true
			}
		}
	}
	return false
}
