package section

import (
	"fmt"
	"slices"

	"github.com/go-drift/listkit/pkg/errors"
)

// Registry tracks which sections exist and in what order they are displayed.
//
// Sections enter the registry two ways: an explicit Declare call fixes the
// displayed order up front, or a section is appended implicitly the first
// time data is supplied for an unseen key. Implicitly added sections are
// "dynamic"; handler scoping distinguishes them from declared ones.
type Registry[K comparable] struct {
	order    []K
	index    map[K]int
	declared map[K]bool
	known    map[K]bool
}

// NewRegistry returns an empty registry.
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{
		index:    make(map[K]int),
		declared: make(map[K]bool),
		known:    make(map[K]bool),
	}
}

// Declare replaces the displayed section list with keys, in order.
// Keys named here are declared; any key later added through data supply is
// dynamic. Declaring the same key twice in one call is a configuration error
// and leaves the registry unchanged.
func (r *Registry[K]) Declare(keys ...K) error {
	seen := make(map[K]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			return &errors.Error{
				Op:   "section.Registry.Declare",
				Kind: errors.KindConfig,
				Err:  &errors.DuplicateSection{Key: key},
			}
		}
		seen[key] = true
	}
	r.order = slices.Clone(keys)
	r.index = make(map[K]int, len(keys))
	r.declared = make(map[K]bool, len(keys))
	for i, key := range keys {
		r.index[key] = i
		r.declared[key] = true
	}
	return nil
}

// register appends key to the displayed order if it is not present yet.
// Keys that were never declared are marked dynamic by omission from the
// declared set.
func (r *Registry[K]) register(key K) {
	if _, ok := r.index[key]; ok {
		return
	}
	r.index[key] = len(r.order)
	r.order = append(r.order, key)
}

// markKnown records that key has been configured with data at least once.
func (r *Registry[K]) markKnown(key K) {
	r.known[key] = true
}

// Count returns the number of displayed sections.
func (r *Registry[K]) Count() int {
	return len(r.order)
}

// KeyAt returns the key of the section displayed at index i.
func (r *Registry[K]) KeyAt(i int) (K, error) {
	if i < 0 || i >= len(r.order) {
		var zero K
		return zero, &errors.Error{
			Op:   "section.Registry.KeyAt",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("section index %d out of range (%d sections)", i, len(r.order)),
		}
	}
	return r.order[i], nil
}

// IndexOf returns the display index of key.
func (r *Registry[K]) IndexOf(key K) (int, error) {
	i, ok := r.index[key]
	if !ok {
		return 0, &errors.Error{
			Op:   "section.Registry.IndexOf",
			Kind: errors.KindConfig,
			Err:  &errors.UnknownSection{Key: key},
		}
	}
	return i, nil
}

// Keys returns the displayed section keys in order.
func (r *Registry[K]) Keys() []K {
	return slices.Clone(r.order)
}

// Contains reports whether key is currently displayed.
func (r *Registry[K]) Contains(key K) bool {
	_, ok := r.index[key]
	return ok
}

// Declared reports whether key was named in the most recent Declare call.
func (r *Registry[K]) Declared(key K) bool {
	return r.declared[key]
}

// Known reports whether key has ever been configured with data.
func (r *Registry[K]) Known(key K) bool {
	return r.known[key]
}
