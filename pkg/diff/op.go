package diff

import (
	"fmt"
	"strings"
)

// OpKind identifies the effect of a single operation.
type OpKind int

const (
	OpSectionDelete OpKind = iota
	OpSectionInsert
	OpSectionMove
	OpRowDelete
	OpRowInsert
	OpRowRefresh
	OpHeaderRefresh
	OpFooterRefresh
)

// String returns the kind's stable name.
func (k OpKind) String() string {
	switch k {
	case OpSectionDelete:
		return "section-delete"
	case OpSectionInsert:
		return "section-insert"
	case OpSectionMove:
		return "section-move"
	case OpRowDelete:
		return "row-delete"
	case OpRowInsert:
		return "row-insert"
	case OpRowRefresh:
		return "row-refresh"
	case OpHeaderRefresh:
		return "header-refresh"
	case OpFooterRefresh:
		return "footer-refresh"
	}
	return "unknown"
}

// SectionLevel reports whether the kind addresses a whole section rather
// than a row inside one.
func (k OpKind) SectionLevel() bool {
	switch k {
	case OpSectionDelete, OpSectionInsert, OpSectionMove, OpHeaderRefresh, OpFooterRefresh:
		return true
	}
	return false
}

// ReasonKind distinguishes plain edits from the halves of a move pair.
type ReasonKind int

const (
	// ReasonEdit marks an ordinary delete or insert.
	ReasonEdit ReasonKind = iota
	// ReasonMove marks one half of a move pair; the Reason's coordinates
	// locate the counterpart operation.
	ReasonMove
)

// Reason qualifies a row delete or insert. For ReasonMove the coordinates
// point at the counterpart: a delete's reason names where the row reappears
// in the new snapshot, an insert's reason names where the row was in the old
// one.
type Reason[K comparable] struct {
	Kind    ReasonKind
	Section K
	Row     int
}

// Op is a single step of an operation script.
//
// SectionIndex is the section's display index in the old order for deletes
// and in the new order for every other kind. Row is the row index inside the
// section, in the same space, and is -1 for section-level operations.
type Op[K comparable] struct {
	Kind         OpKind
	Section      K
	SectionIndex int
	FromIndex    int
	Row          int
	Reason       Reason[K]
}

// String renders the operation in script form.
func (o Op[K]) String() string {
	switch o.Kind {
	case OpSectionDelete:
		return fmt.Sprintf("delete section %v (old %d)", o.Section, o.SectionIndex)
	case OpSectionInsert:
		return fmt.Sprintf("insert section %v (new %d)", o.Section, o.SectionIndex)
	case OpSectionMove:
		return fmt.Sprintf("move section %v (%d -> %d)", o.Section, o.FromIndex, o.SectionIndex)
	case OpRowDelete:
		if o.Reason.Kind == ReasonMove {
			return fmt.Sprintf("delete row %v[%d] (moved to %v[%d])", o.Section, o.Row, o.Reason.Section, o.Reason.Row)
		}
		return fmt.Sprintf("delete row %v[%d]", o.Section, o.Row)
	case OpRowInsert:
		if o.Reason.Kind == ReasonMove {
			return fmt.Sprintf("insert row %v[%d] (moved from %v[%d])", o.Section, o.Row, o.Reason.Section, o.Reason.Row)
		}
		return fmt.Sprintf("insert row %v[%d]", o.Section, o.Row)
	case OpRowRefresh:
		return fmt.Sprintf("refresh row %v[%d]", o.Section, o.Row)
	case OpHeaderRefresh:
		return fmt.Sprintf("refresh header %v", o.Section)
	case OpFooterRefresh:
		return fmt.Sprintf("refresh footer %v", o.Section)
	}
	return fmt.Sprintf("unknown op kind %d", int(o.Kind))
}

// Script renders ops one per line, in script order. The output is stable
// across runs and suits golden comparisons.
func Script[K comparable](ops []Op[K]) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Stats counts the operations of a script by effect. Move pairs count once.
type Stats struct {
	SectionDeletes  int
	SectionInserts  int
	SectionMoves    int
	RowDeletes      int
	RowInserts      int
	RowMoves        int
	RowRefreshes    int
	HeaderRefreshes int
	FooterRefreshes int
}

// Total returns the number of operations counted, move pairs counting two.
func (s Stats) Total() int {
	return s.SectionDeletes + s.SectionInserts + s.SectionMoves +
		s.RowDeletes + s.RowInserts + 2*s.RowMoves + s.RowRefreshes +
		s.HeaderRefreshes + s.FooterRefreshes
}

// Tally summarizes ops.
func Tally[K comparable](ops []Op[K]) Stats {
	var s Stats
	for _, op := range ops {
		switch op.Kind {
		case OpSectionDelete:
			s.SectionDeletes++
		case OpSectionInsert:
			s.SectionInserts++
		case OpSectionMove:
			s.SectionMoves++
		case OpRowDelete:
			if op.Reason.Kind != ReasonMove {
				s.RowDeletes++
			}
		case OpRowInsert:
			if op.Reason.Kind == ReasonMove {
				s.RowMoves++
			} else {
				s.RowInserts++
			}
		case OpRowRefresh:
			s.RowRefreshes++
		case OpHeaderRefresh:
			s.HeaderRefreshes++
		case OpFooterRefresh:
			s.FooterRefreshes++
		}
	}
	return s
}
