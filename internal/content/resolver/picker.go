// internal/content/resolver/picker.go
package resolver

import "math/rand/v2"

// Picker is the random source used for every uniform pick.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// NewRandomPicker returns the process-wide, goroutine-safe source.
func NewRandomPicker() Picker {
	return globalPicker{}
}

// NewSeededPicker returns a reproducible source. It is not safe for
// concurrent use; give each Resolver its own.
func NewSeededPicker(seed uint64) Picker {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
