package section

import (
	"slices"

	"github.com/go-drift/listkit/pkg/errors"
)

// Store holds the row, header, and footer state for every displayed section,
// keyed by the owning registry's section keys.
//
// All mutation is wholesale per section: SetRows replaces a section's entire
// row sequence. Callers never receive references to internal storage; reads
// return copies.
type Store[K comparable] struct {
	registry *Registry[K]
	rows     map[K][]Row
	headers  map[K]any
	footers  map[K]any
}

// NewStore returns an empty store with its own registry.
func NewStore[K comparable]() *Store[K] {
	return &Store[K]{
		registry: NewRegistry[K](),
		rows:     make(map[K][]Row),
		headers:  make(map[K]any),
		footers:  make(map[K]any),
	}
}

// Registry returns the registry that orders this store's sections.
func (s *Store[K]) Registry() *Registry[K] {
	return s.registry
}

// Declare replaces the displayed section list. State held for sections that
// are no longer displayed is destroyed.
func (s *Store[K]) Declare(keys ...K) error {
	if err := s.registry.Declare(keys...); err != nil {
		return err
	}
	for key := range s.rows {
		if !s.registry.Contains(key) {
			delete(s.rows, key)
		}
	}
	for key := range s.headers {
		if !s.registry.Contains(key) {
			delete(s.headers, key)
		}
	}
	for key := range s.footers {
		if !s.registry.Contains(key) {
			delete(s.footers, key)
		}
	}
	return nil
}

// SetRows replaces the row sequence of the section named by key. An unseen
// key registers a dynamic section appended after the current order.
func (s *Store[K]) SetRows(key K, rows ...Row) {
	s.registry.register(key)
	s.registry.markKnown(key)
	s.rows[key] = slices.Clone(rows)
}

// Rows returns a copy of the section's row sequence.
func (s *Store[K]) Rows(key K) ([]Row, error) {
	if !s.registry.Contains(key) {
		return nil, &errors.Error{
			Op:   "section.Store.Rows",
			Kind: errors.KindConfig,
			Err:  &errors.UnknownSection{Key: key},
		}
	}
	return slices.Clone(s.rows[key]), nil
}

// RowCount returns the number of rows in the section named by key.
func (s *Store[K]) RowCount(key K) (int, error) {
	if !s.registry.Contains(key) {
		return 0, &errors.Error{
			Op:   "section.Store.RowCount",
			Kind: errors.KindConfig,
			Err:  &errors.UnknownSection{Key: key},
		}
	}
	return len(s.rows[key]), nil
}

// SetHeader sets the header state of the section named by key, registering
// the section if needed. A nil state clears the header.
func (s *Store[K]) SetHeader(key K, state any) {
	s.registry.register(key)
	s.registry.markKnown(key)
	if state == nil {
		delete(s.headers, key)
		return
	}
	s.headers[key] = state
}

// SetFooter sets the footer state of the section named by key, registering
// the section if needed. A nil state clears the footer.
func (s *Store[K]) SetFooter(key K, state any) {
	s.registry.register(key)
	s.registry.markKnown(key)
	if state == nil {
		delete(s.footers, key)
		return
	}
	s.footers[key] = state
}

// Header returns the section's header state, or nil when unset.
func (s *Store[K]) Header(key K) any {
	return s.headers[key]
}

// Footer returns the section's footer state, or nil when unset.
func (s *Store[K]) Footer(key K) any {
	return s.footers[key]
}

// Snapshot captures the store's current displayed state. The snapshot is
// independent of later mutations and safe to diff against another snapshot.
func (s *Store[K]) Snapshot() Snapshot[K] {
	snap := Snapshot[K]{
		Order:    s.registry.Keys(),
		Rows:     make(map[K][]Row, len(s.rows)),
		Headers:  make(map[K]any, len(s.headers)),
		Footers:  make(map[K]any, len(s.footers)),
		Declared: make(map[K]bool, len(s.registry.declared)),
	}
	for key, rows := range s.rows {
		snap.Rows[key] = slices.Clone(rows)
	}
	for key, state := range s.headers {
		snap.Headers[key] = state
	}
	for key, state := range s.footers {
		snap.Footers[key] = state
	}
	for key := range s.registry.declared {
		snap.Declared[key] = true
	}
	return snap
}

// Load replaces the store's state with snap. The registry's known marks are
// preserved; everything else is overwritten.
func (s *Store[K]) Load(snap Snapshot[K]) {
	s.registry.order = slices.Clone(snap.Order)
	s.registry.index = make(map[K]int, len(snap.Order))
	for i, key := range snap.Order {
		s.registry.index[key] = i
	}
	s.registry.declared = make(map[K]bool, len(snap.Declared))
	for key := range snap.Declared {
		s.registry.declared[key] = true
	}
	s.rows = make(map[K][]Row, len(snap.Rows))
	for key, rows := range snap.Rows {
		s.rows[key] = slices.Clone(rows)
	}
	s.headers = make(map[K]any, len(snap.Headers))
	for key, state := range snap.Headers {
		s.headers[key] = state
	}
	s.footers = make(map[K]any, len(snap.Footers))
	for key, state := range snap.Footers {
		s.footers[key] = state
	}
}

// Snapshot is an immutable copy of a store's displayed state at one point in
// time. Reconciliation diffs two snapshots; neither aliases live storage.
type Snapshot[K comparable] struct {
	Order    []K
	Rows     map[K][]Row
	Headers  map[K]any
	Footers  map[K]any
	Declared map[K]bool
}

// Section returns the rows of key, or nil when the snapshot has none.
func (n Snapshot[K]) Section(key K) []Row {
	return n.Rows[key]
}

// Contains reports whether key is displayed in the snapshot.
func (n Snapshot[K]) Contains(key K) bool {
	return slices.Contains(n.Order, key)
}

// IndexOf returns the display index of key, or -1 when absent.
func (n Snapshot[K]) IndexOf(key K) int {
	return slices.Index(n.Order, key)
}
