package diff

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/section"
)

// Source supplies fresh content while a script is applied. Inserted and
// refreshed rows pull their content through it, the way a display surface
// pulls cell content from the list view.
type Source[K comparable] interface {
	RowCount(key K) int
	RowContent(key K, row int) any
	HeaderContent(key K) any
	FooterContent(key K) any
}

// SnapshotSource adapts a snapshot to Source, serving row display payloads
// and header and footer state.
func SnapshotSource[K comparable](snap section.Snapshot[K]) Source[K] {
	return snapshotSource[K]{snap: snap}
}

type snapshotSource[K comparable] struct {
	snap section.Snapshot[K]
}

func (s snapshotSource[K]) RowCount(key K) int {
	return len(s.snap.Rows[key])
}

func (s snapshotSource[K]) RowContent(key K, row int) any {
	rows := s.snap.Rows[key]
	if row < 0 || row >= len(rows) {
		return nil
	}
	return rows[row].Display()
}

func (s snapshotSource[K]) HeaderContent(key K) any {
	return s.snap.Headers[key]
}

func (s snapshotSource[K]) FooterContent(key K) any {
	return s.snap.Footers[key]
}

// State is a flat rendering of a sectioned list: the shape a display surface
// holds after applying a script. Rows carry display payloads only.
type State[K comparable] struct {
	Order   []K
	Rows    map[K][]any
	Headers map[K]any
	Footers map[K]any
}

// StateOf flattens a snapshot to its displayed form.
func StateOf[K comparable](snap section.Snapshot[K]) State[K] {
	st := State[K]{
		Order:   slices.Clone(snap.Order),
		Rows:    make(map[K][]any, len(snap.Rows)),
		Headers: make(map[K]any, len(snap.Headers)),
		Footers: make(map[K]any, len(snap.Footers)),
	}
	for key, rows := range snap.Rows {
		flat := make([]any, len(rows))
		for i, r := range rows {
			flat[i] = r.Display()
		}
		st.Rows[key] = flat
	}
	for key, state := range snap.Headers {
		st.Headers[key] = state
	}
	for key, state := range snap.Footers {
		st.Footers[key] = state
	}
	return st
}

// Clone returns a deep copy of the state.
func (s State[K]) Clone() State[K] {
	out := State[K]{
		Order:   slices.Clone(s.Order),
		Rows:    make(map[K][]any, len(s.Rows)),
		Headers: make(map[K]any, len(s.Headers)),
		Footers: make(map[K]any, len(s.Footers)),
	}
	for key, rows := range s.Rows {
		out.Rows[key] = slices.Clone(rows)
	}
	for key, state := range s.Headers {
		out.Headers[key] = state
	}
	for key, state := range s.Footers {
		out.Footers[key] = state
	}
	return out
}

// Equal reports whether both states display the same sections, rows,
// headers, and footers.
func (s State[K]) Equal(other State[K]) bool {
	if !slices.Equal(s.Order, other.Order) {
		return false
	}
	for _, key := range s.Order {
		a, b := s.Rows[key], other.Rows[key]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !reflect.DeepEqual(a[i], b[i]) {
				return false
			}
		}
		if !reflect.DeepEqual(s.Headers[key], other.Headers[key]) {
			return false
		}
		if !reflect.DeepEqual(s.Footers[key], other.Footers[key]) {
			return false
		}
	}
	return true
}

// String renders the displayed sections and their contents in display
// order, one indented line per row, header, or footer.
func (s State[K]) String() string {
	var b strings.Builder
	for i, key := range s.Order {
		fmt.Fprintf(&b, "section %v (index %d)\n", key, i)
		if h, ok := s.Headers[key]; ok {
			fmt.Fprintf(&b, "  header: %v\n", h)
		}
		for r, content := range s.Rows[key] {
			fmt.Fprintf(&b, "  [%d] %v\n", r, content)
		}
		if f, ok := s.Footers[key]; ok {
			fmt.Fprintf(&b, "  footer: %v\n", f)
		}
	}
	return b.String()
}

// coord addresses one row of one section.
type coord[K comparable] struct {
	key K
	row int
}

// Apply executes ops against prev as one batch, pulling fresh content from
// src, and returns the resulting state. It is the reference interpreter for
// scripts: deletes are interpreted against prev's indices, inserts and
// refreshes against the result's. The script is validated as it runs; an
// out-of-range index, a row operation on a deleted or inserted section, or a
// broken move pairing fails with a KindApply error and no result.
func Apply[K comparable](prev State[K], ops []Op[K], src Source[K]) (State[K], error) {
	work := prev.Clone()
	prevPos := indexMap(prev.Order)

	var sectionDeletes, placements []Op[K]
	rowDeletes := make(map[K][]Op[K])
	rowInserts := make(map[K][]Op[K])
	var refreshes []Op[K]
	deleted := make(map[K]bool)
	inserted := make(map[K]bool)

	for _, op := range ops {
		switch op.Kind {
		case OpSectionDelete:
			if op.SectionIndex < 0 || op.SectionIndex >= len(prev.Order) {
				return State[K]{}, violation(op, "section index outside the old order")
			}
			if prev.Order[op.SectionIndex] != op.Section {
				return State[K]{}, violation(op, "section key does not match the old order")
			}
			if deleted[op.Section] {
				return State[K]{}, violation(op, "section deleted twice")
			}
			deleted[op.Section] = true
			sectionDeletes = append(sectionDeletes, op)
		case OpSectionInsert:
			if _, exists := prevPos[op.Section]; exists {
				return State[K]{}, violation(op, "inserted section already displayed")
			}
			if inserted[op.Section] {
				return State[K]{}, violation(op, "section inserted twice")
			}
			inserted[op.Section] = true
			placements = append(placements, op)
		case OpSectionMove:
			i, exists := prevPos[op.Section]
			if !exists {
				return State[K]{}, violation(op, "moved section missing from the old order")
			}
			if i != op.FromIndex {
				return State[K]{}, violation(op, "move origin does not match the old order")
			}
			placements = append(placements, op)
		case OpRowDelete:
			if _, exists := prevPos[op.Section]; !exists {
				return State[K]{}, violation(op, "row deleted in an unknown section")
			}
			rowDeletes[op.Section] = append(rowDeletes[op.Section], op)
		case OpRowInsert:
			rowInserts[op.Section] = append(rowInserts[op.Section], op)
		case OpRowRefresh, OpHeaderRefresh, OpFooterRefresh:
			refreshes = append(refreshes, op)
		default:
			return State[K]{}, violation(op, "unknown operation kind")
		}
	}

	// Row removal happens in old index space, per section, before the
	// section list itself changes. Move halves stash their destination so
	// the insert pass can verify the pairing.
	stash := make(map[coord[K]]coord[K])
	consumed := make(map[coord[K]]bool)
	for _, key := range prev.Order {
		dels := rowDeletes[key]
		if len(dels) == 0 {
			continue
		}
		if deleted[key] {
			return State[K]{}, violation(dels[0], "row deleted in a section deleted by the same script")
		}
		rows := work.Rows[key]
		seen := make(map[int]bool, len(dels))
		for _, op := range dels {
			if op.Row < 0 || op.Row >= len(rows) {
				return State[K]{}, violation(op, "row index outside the old section")
			}
			if seen[op.Row] {
				return State[K]{}, violation(op, "row deleted twice")
			}
			seen[op.Row] = true
			if op.Reason.Kind == ReasonMove {
				stash[coord[K]{key: key, row: op.Row}] = coord[K]{key: op.Reason.Section, row: op.Reason.Row}
			}
		}
		ordered := slices.Clone(dels)
		sort.Slice(ordered, func(a, b int) bool { return ordered[a].Row > ordered[b].Row })
		for _, op := range ordered {
			rows = slices.Delete(rows, op.Row, op.Row+1)
		}
		work.Rows[key] = rows
	}

	sort.Slice(sectionDeletes, func(a, b int) bool {
		return sectionDeletes[a].SectionIndex > sectionDeletes[b].SectionIndex
	})
	for _, op := range sectionDeletes {
		i := slices.Index(work.Order, op.Section)
		work.Order = slices.Delete(work.Order, i, i+1)
		delete(work.Rows, op.Section)
		delete(work.Headers, op.Section)
		delete(work.Footers, op.Section)
	}

	// Placements land in ascending target order so every index is final.
	sort.SliceStable(placements, func(a, b int) bool {
		return placements[a].SectionIndex < placements[b].SectionIndex
	})
	for _, op := range placements {
		if op.Kind == OpSectionMove {
			i := slices.Index(work.Order, op.Section)
			if i < 0 {
				return State[K]{}, violation(op, "moved section was deleted by the same script")
			}
			work.Order = slices.Delete(work.Order, i, i+1)
		}
		if op.SectionIndex < 0 || op.SectionIndex > len(work.Order) {
			return State[K]{}, violation(op, "section index outside the new order")
		}
		work.Order = slices.Insert(work.Order, op.SectionIndex, op.Section)
		if op.Kind == OpSectionInsert {
			count := src.RowCount(op.Section)
			rows := make([]any, count)
			for i := range rows {
				rows[i] = src.RowContent(op.Section, i)
			}
			work.Rows[op.Section] = rows
			if h := src.HeaderContent(op.Section); h != nil {
				work.Headers[op.Section] = h
			}
			if f := src.FooterContent(op.Section); f != nil {
				work.Footers[op.Section] = f
			}
		}
	}

	// Row inserts in new index space, ascending per section. Move halves
	// must consume a stashed delete that points right back at them.
	for _, key := range work.Order {
		ins := rowInserts[key]
		if len(ins) == 0 {
			continue
		}
		if inserted[key] {
			return State[K]{}, violation(ins[0], "row inserted in a section inserted by the same script")
		}
		if _, survived := prevPos[key]; !survived {
			return State[K]{}, violation(ins[0], "row inserted in an unknown section")
		}
		ordered := slices.Clone(ins)
		sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Row < ordered[b].Row })
		rows := work.Rows[key]
		for _, op := range ordered {
			if op.Row < 0 || op.Row > len(rows) {
				return State[K]{}, violation(op, "row index outside the new section")
			}
			if op.Reason.Kind == ReasonMove {
				origin := coord[K]{key: op.Reason.Section, row: op.Reason.Row}
				target, ok := stash[origin]
				if !ok {
					return State[K]{}, violation(op, "move insert without a matching delete")
				}
				if target != (coord[K]{key: key, row: op.Row}) {
					return State[K]{}, violation(op, "move pair coordinates disagree")
				}
				if consumed[origin] {
					return State[K]{}, violation(op, "move delete consumed twice")
				}
				consumed[origin] = true
			}
			rows = slices.Insert(rows, op.Row, src.RowContent(key, op.Row))
		}
		work.Rows[key] = rows
	}

	for _, op := range ops {
		if op.Kind == OpRowInsert && !slices.Contains(work.Order, op.Section) {
			return State[K]{}, violation(op, "row inserted in a section not displayed")
		}
	}

	// A move delete whose insert half never arrived leaves the pair broken.
	for _, key := range prev.Order {
		for _, op := range rowDeletes[key] {
			if op.Reason.Kind != ReasonMove {
				continue
			}
			if !consumed[coord[K]{key: key, row: op.Row}] {
				return State[K]{}, violation(op, "move delete without a matching insert")
			}
		}
	}

	for _, op := range refreshes {
		if !slices.Contains(work.Order, op.Section) {
			return State[K]{}, violation(op, "refresh in a section not displayed")
		}
		if inserted[op.Section] {
			return State[K]{}, violation(op, "refresh in a section inserted by the same script")
		}
		switch op.Kind {
		case OpRowRefresh:
			rows := work.Rows[op.Section]
			if op.Row < 0 || op.Row >= len(rows) {
				return State[K]{}, violation(op, "row index outside the new section")
			}
			rows[op.Row] = src.RowContent(op.Section, op.Row)
		case OpHeaderRefresh:
			if h := src.HeaderContent(op.Section); h != nil {
				work.Headers[op.Section] = h
			} else {
				delete(work.Headers, op.Section)
			}
		case OpFooterRefresh:
			if f := src.FooterContent(op.Section); f != nil {
				work.Footers[op.Section] = f
			} else {
				delete(work.Footers, op.Section)
			}
		}
	}

	return work, nil
}

func violation[K comparable](op Op[K], detail string) error {
	return &errors.Error{
		Op:   "diff.Apply",
		Kind: errors.KindApply,
		Err:  &errors.ApplyViolation{Op: op.String(), Detail: detail},
	}
}
