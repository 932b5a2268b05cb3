package feature

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateFeature = errors.New("duplicate feature name")
	ErrNilFeature       = errors.New("nil feature")
)

// Registry is an ordered, read-only list of features. A feature's index is
// its position in the list.
type Registry struct {
	features []Feature
}

// NewRegistry builds a registry from features in the given order. Names are
// compared case-insensitively and must be unique.
func NewRegistry(features ...Feature) (*Registry, error) {
	seen := make(map[string]int, len(features))
	list := make([]Feature, 0, len(features))
	for i, f := range features {
		if f == nil {
			return nil, fmt.Errorf("feature #%d: %w", i, ErrNilFeature)
		}
		key := strings.ToLower(strings.TrimSpace(f.Name()))
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q at #%d and #%d", ErrDuplicateFeature, f.Name(), prev, i)
		}
		seen[key] = i
		list = append(list, f)
	}
	return &Registry{features: list}, nil
}

// List returns the features in index order.
func (r *Registry) List() []Feature {
	out := make([]Feature, len(r.features))
	copy(out, r.features)
	return out
}

func (r *Registry) Len() int {
	return len(r.features)
}

// At returns the feature at index i, or false if i is out of range.
func (r *Registry) At(i int) (Feature, bool) {
	if i < 0 || i >= len(r.features) {
		return nil, false
	}
	return r.features[i], true
}

// Match returns the first feature whose keyword predicate accepts text.
func (r *Registry) Match(text string) (int, Feature, bool) {
	for i, f := range r.features {
		if f.CanHandle(text) {
			return i, f, true
		}
	}
	return -1, nil, false
}
