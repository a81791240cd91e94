// internal/models/template.go
package models

// VariableDecl is one placeholder declared by a layout template. All fields
// are optional; Default keeps whatever JSON value the layout author wrote.
type VariableDecl struct {
	Type        string      `json:"type,omitempty"`
	Description string      `json:"description,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// VariableSchema maps a template variable name to its declaration.
type VariableSchema map[string]VariableDecl

// Bindings maps every schema variable to its resolved value (text or an image
// reference).
type Bindings map[string]string

// ImagePool holds brand-supplied assets. Order is insertion order.
type ImagePool struct {
	Logo     string   `json:"logo,omitempty"`
	General  []string `json:"general"`
	Products []string `json:"products"`
}
