// Package images picks brand assets for image-typed template variables.
package images

import (
	"strings"

	"brand-content-engine/internal/models"
)

// Placeholders returned when the pool has nothing suitable.
const (
	LogoPlaceholder    = "https://placehold.co/200x200?text=Logo"
	ProductPlaceholder = "https://placehold.co/800x800?text=Product"
	GeneralPlaceholder = "https://placehold.co/1200x800?text=Image"
)

// Picker returns a uniform index in [0, n).
type Picker interface {
	IntN(n int) int
}

// Kind is the pool a variable name points at.
type Kind string

const (
	KindLogo    Kind = "logo"
	KindProduct Kind = "product"
	KindGeneral Kind = "general"
)

// KindOf classifies a lowercased variable name.
func KindOf(key string) Kind {
	switch {
	case strings.Contains(key, "logo"):
		return KindLogo
	case strings.Contains(key, "product"):
		return KindProduct
	}
	return KindGeneral
}

// Selector resolves image requests against one brand's pool.
type Selector struct {
	pool   models.ImagePool
	picker Picker
}

func NewSelector(pool models.ImagePool, picker Picker) *Selector {
	return &Selector{pool: pool, picker: picker}
}

// Select returns an image reference for key. Products fall back to general
// images and general falls back to products before a placeholder is used.
func (s *Selector) Select(key string) string {
	switch KindOf(strings.ToLower(key)) {
	case KindLogo:
		if s.pool.Logo != "" {
			return s.pool.Logo
		}
		return LogoPlaceholder
	case KindProduct:
		return s.first(ProductPlaceholder, s.pool.Products, s.pool.General)
	default:
		return s.first(GeneralPlaceholder, s.pool.General, s.pool.Products)
	}
}

func (s *Selector) first(placeholder string, pools ...[]string) string {
	for _, p := range pools {
		if len(p) > 0 {
			return p[s.picker.IntN(len(p))]
		}
	}
	return placeholder
}
