// Package identity matches entities by name.
//
// Names are compared case-insensitively with surrounding whitespace removed.
// The normalized key is used only for matching and is never displayed.
package identity

import "strings"

// Normalize returns the matching key for a display name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Index maps normalized names to values. The first value recorded for a key wins.
// An Index is built once and then only read.
type Index[V any] struct {
	byKey map[string]V
}

// NewIndex creates an empty index sized for n names.
func NewIndex[V any](n int) *Index[V] {
	if n < 0 {
		n = 0
	}
	return &Index[V]{byKey: make(map[string]V, n)}
}

// SeenAndRecord records v under name unless the key is already present.
// Returns true if the key was already seen, false if v was newly recorded.
// Blank names are never recorded and report true.
func (ix *Index[V]) SeenAndRecord(name string, v V) bool {
	key := Normalize(name)
	if key == "" {
		return true
	}
	if _, exists := ix.byKey[key]; exists {
		return true
	}
	ix.byKey[key] = v
	return false
}

// Lookup returns the value recorded for name.
func (ix *Index[V]) Lookup(name string) (V, bool) {
	v, ok := ix.byKey[Normalize(name)]
	return v, ok
}
