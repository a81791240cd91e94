// Package resolver binds template variables to content matrix items and
// brand images.
package resolver

import (
	"sort"
	"strings"

	"brand-content-engine/internal/common/metrics"
	"brand-content-engine/internal/content/images"
	"brand-content-engine/internal/models"
)

// Placeholder is the binding emitted when no rule produced a value.
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

// Context is what a rule can draw from while resolving one schema.
type Context struct {
	matrix    *models.ContentMatrix
	images    *images.Selector
	picker    Picker
	brandName string
}

// Pick returns a uniform random item from the category, or from its static
// fallback list when the category is empty.
func (c *Context) Pick(category models.Category) string {
	items := c.matrix.List(category)
	if len(items) == 0 {
		items = staticFallbacks[category]
	}
	if len(items) == 0 {
		return ""
	}
	return items[c.picker.IntN(len(items))]
}

// First returns up to n items of the category in stored order.
func (c *Context) First(category models.Category, n int) []string {
	items := c.matrix.List(category)
	if len(items) == 0 {
		items = staticFallbacks[category]
	}
	if len(items) > n {
		items = items[:n]
	}
	return items
}

type Resolver struct {
	rules     []Rule
	picker    Picker
	brandName string
}

type Option func(*Resolver)

func WithPicker(p Picker) Option {
	return func(r *Resolver) { r.picker = p }
}

// WithBrandName sets the value bound to brand/company name variables.
func WithBrandName(name string) Option {
	return func(r *Resolver) { r.brandName = strings.TrimSpace(name) }
}

// WithRules replaces the classification chain. The last rule should match
// everything or keys may stay unbound.
func WithRules(rules []Rule) Option {
	return func(r *Resolver) { r.rules = rules }
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		rules:  DefaultRules(),
		picker: NewRandomPicker(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a binding for every key of schema.
func (r *Resolver) Resolve(schema models.VariableSchema, m *models.ContentMatrix, pool models.ImagePool) models.Bindings {
	bindings, _ := r.ResolveWithTrace(schema, m, pool)
	return bindings
}

// ResolveWithTrace also reports the rule that produced each binding. Keys
// are visited in sorted order so a seeded Picker gives repeatable output.
func (r *Resolver) ResolveWithTrace(schema models.VariableSchema, m *models.ContentMatrix, pool models.ImagePool) (models.Bindings, map[string]string) {
	c := &Context{
		matrix:    m,
		images:    images.NewSelector(pool, r.picker),
		picker:    r.picker,
		brandName: r.brandName,
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make(models.Bindings, len(schema))
	trace := make(map[string]string, len(schema))
	for _, key := range keys {
		v := Variable{Key: key, Name: strings.ToLower(key), Decl: schema[key]}
		bindings[key], trace[key] = r.resolveOne(c, v)
		metrics.ResolverRuleHits.WithLabelValues(trace[key]).Inc()
		if bindings[key] == Placeholder(key) {
			metrics.ResolverUnresolved.Inc()
		}
	}
	return bindings, trace
}

func (r *Resolver) resolveOne(c *Context, v Variable) (string, string) {
	for _, rule := range r.rules {
		if rule.Match(v) {
			return rule.Resolve(c, v), rule.Name
		}
	}
	return Placeholder(v.Key), "none"
}

// UnresolvedKeys lists keys still bound to their placeholder, sorted.
func UnresolvedKeys(b models.Bindings) []string {
	var keys []string
	for k, v := range b {
		if v == Placeholder(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
