package diff

import (
	"reflect"

	"github.com/go-drift/listkit/pkg/section"
)

// Compute diffs two snapshots and returns the operation script that
// transforms prev into next. The script is emitted in application order:
// section deletes descending through the old order, section moves and
// inserts ascending through the new order, row deletes per section in
// old-section order descending, row inserts per section in new-section order
// ascending, then row refreshes and header and footer refreshes.
//
// Rows travel with their section: deleting or inserting a section implies
// its rows, so row operations are only emitted for sections present in both
// snapshots.
func Compute[K comparable](prev, next section.Snapshot[K]) []Op[K] {
	var ops []Op[K]

	prevPos := indexMap(prev.Order)
	nextPos := indexMap(next.Order)
	stable := longestCommonSubsequence(prev.Order, next.Order)

	// Sections leaving the list, bottom-up so old indices stay valid.
	for i := len(prev.Order) - 1; i >= 0; i-- {
		key := prev.Order[i]
		if _, survives := nextPos[key]; !survives {
			ops = append(ops, Op[K]{Kind: OpSectionDelete, Section: key, SectionIndex: i, Row: -1})
		}
	}

	// Placements in ascending target order. Surviving sections outside the
	// common subsequence move; unseen keys insert.
	for j, key := range next.Order {
		i, survives := prevPos[key]
		switch {
		case !survives:
			ops = append(ops, Op[K]{Kind: OpSectionInsert, Section: key, SectionIndex: j, Row: -1})
		case !stable[key]:
			ops = append(ops, Op[K]{Kind: OpSectionMove, Section: key, SectionIndex: j, FromIndex: i, Row: -1})
		}
	}

	// Row alignment for surviving sections, in new display order.
	states := make([]*sectionDiff[K], 0, len(next.Order))
	byKey := make(map[K]*sectionDiff[K], len(next.Order))
	for j, key := range next.Order {
		i, survives := prevPos[key]
		if !survives {
			continue
		}
		st := newSectionDiff(key, i, j, prev.Rows[key], next.Rows[key])
		states = append(states, st)
		byKey[key] = st
	}
	for _, st := range states {
		st.matchWithin()
	}
	crossMatch(prev.Order, byKey, states)
	for _, st := range states {
		st.resolveMoves()
	}

	// Row deletes walk the old section order, bottom-up within each section.
	for _, key := range prev.Order {
		st := byKey[key]
		if st == nil {
			continue
		}
		for i := len(st.oldRows) - 1; i >= 0; i-- {
			switch {
			case st.oldCross[i] != nil:
				ref := st.oldCross[i]
				ops = append(ops, Op[K]{
					Kind: OpRowDelete, Section: st.key, SectionIndex: st.oldPos, Row: i,
					Reason: Reason[K]{Kind: ReasonMove, Section: ref.key, Row: ref.row},
				})
			case st.sameMovedTo != nil && containsKey(st.sameMovedTo, i):
				ops = append(ops, Op[K]{
					Kind: OpRowDelete, Section: st.key, SectionIndex: st.oldPos, Row: i,
					Reason: Reason[K]{Kind: ReasonMove, Section: st.key, Row: st.sameMovedTo[i]},
				})
			case !st.oldTaken[i]:
				ops = append(ops, Op[K]{Kind: OpRowDelete, Section: st.key, SectionIndex: st.oldPos, Row: i})
			}
		}
	}

	// Row inserts walk the new section order, top-down within each section.
	for _, st := range states {
		for j := range st.newRows {
			switch {
			case st.newCross[j] != nil:
				ref := st.newCross[j]
				ops = append(ops, Op[K]{
					Kind: OpRowInsert, Section: st.key, SectionIndex: st.newPos, Row: j,
					Reason: Reason[K]{Kind: ReasonMove, Section: ref.key, Row: ref.row},
				})
			case st.newFrom[j] >= 0 && !st.newStable[j]:
				ops = append(ops, Op[K]{
					Kind: OpRowInsert, Section: st.key, SectionIndex: st.newPos, Row: j,
					Reason: Reason[K]{Kind: ReasonMove, Section: st.key, Row: st.newFrom[j]},
				})
			case st.newFrom[j] < 0:
				ops = append(ops, Op[K]{Kind: OpRowInsert, Section: st.key, SectionIndex: st.newPos, Row: j})
			}
		}
	}

	// Refreshes for rows that kept their place but changed content. Moved
	// rows skip this: their insert half re-pulls content anyway.
	for _, st := range states {
		for j := range st.newRows {
			if !st.newStable[j] {
				continue
			}
			if st.newRows[j].ChangedFrom(st.oldRows[st.newFrom[j]]) {
				ops = append(ops, Op[K]{Kind: OpRowRefresh, Section: st.key, SectionIndex: st.newPos, Row: j})
			}
		}
	}

	// Header and footer state, header first per section, in new order.
	for _, st := range states {
		if !reflect.DeepEqual(prev.Headers[st.key], next.Headers[st.key]) {
			ops = append(ops, Op[K]{Kind: OpHeaderRefresh, Section: st.key, SectionIndex: st.newPos, Row: -1})
		}
		if !reflect.DeepEqual(prev.Footers[st.key], next.Footers[st.key]) {
			ops = append(ops, Op[K]{Kind: OpFooterRefresh, Section: st.key, SectionIndex: st.newPos, Row: -1})
		}
	}

	return ops
}

// crossRef locates a row in another section's row sequence.
type crossRef[K comparable] struct {
	key K
	row int
}

// sectionDiff carries the row-matching state of one surviving section.
type sectionDiff[K comparable] struct {
	key     K
	oldPos  int
	newPos  int
	oldRows []section.Row
	newRows []section.Row

	oldTaken    []bool         // old row claimed by some new row
	newFrom     []int          // same-section match, old index or -1
	oldCross    []*crossRef[K] // old row moved out, to new coordinates
	newCross    []*crossRef[K] // new row moved in, from old coordinates
	newStable   []bool         // matched in place, no move
	sameMovedTo map[int]int    // old index -> new index for in-section moves
}

func newSectionDiff[K comparable](key K, oldPos, newPos int, oldRows, newRows []section.Row) *sectionDiff[K] {
	st := &sectionDiff[K]{
		key:      key,
		oldPos:   oldPos,
		newPos:   newPos,
		oldRows:  oldRows,
		newRows:  newRows,
		oldTaken: make([]bool, len(oldRows)),
		newFrom:  make([]int, len(newRows)),
		oldCross: make([]*crossRef[K], len(oldRows)),
		newCross: make([]*crossRef[K], len(newRows)),
	}
	for j := range st.newFrom {
		st.newFrom[j] = -1
	}
	return st
}

// matchWithin pairs new rows with old rows of the same section, greedily and
// without reuse: each new row claims the first unclaimed old row it is
// identical to.
func (d *sectionDiff[K]) matchWithin() {
	for j := range d.newRows {
		for i := range d.oldRows {
			if d.oldTaken[i] {
				continue
			}
			if d.newRows[j].SameItemAs(d.oldRows[i]) {
				d.oldTaken[i] = true
				d.newFrom[j] = i
				break
			}
		}
	}
}

// crossMatch offers rows left unmatched within their own section to the
// other surviving sections. New rows are visited in new display order and
// claim donors in old display order, so the pairing is deterministic.
func crossMatch[K comparable](oldOrder []K, byKey map[K]*sectionDiff[K], states []*sectionDiff[K]) {
	for _, st := range states {
		for j := range st.newRows {
			if st.newFrom[j] >= 0 || st.newCross[j] != nil {
				continue
			}
		donors:
			for _, oldKey := range oldOrder {
				donor := byKey[oldKey]
				if donor == nil || donor.key == st.key {
					continue
				}
				for i := range donor.oldRows {
					if donor.oldTaken[i] {
						continue
					}
					if st.newRows[j].SameItemAs(donor.oldRows[i]) {
						donor.oldTaken[i] = true
						donor.oldCross[i] = &crossRef[K]{key: st.key, row: j}
						st.newCross[j] = &crossRef[K]{key: donor.key, row: i}
						break donors
					}
				}
			}
		}
	}
}

// resolveMoves splits the section's same-section matches into rows that kept
// their relative order and rows that moved, via a longest increasing
// subsequence over the matched old positions.
func (d *sectionDiff[K]) resolveMoves() {
	d.newStable = make([]bool, len(d.newRows))
	type pair struct{ oldIndex, newIndex int }
	var pairs []pair
	for j, i := range d.newFrom {
		if i >= 0 {
			pairs = append(pairs, pair{oldIndex: i, newIndex: j})
		}
	}
	if len(pairs) == 0 {
		return
	}
	seq := make([]int, len(pairs))
	for x, p := range pairs {
		seq[x] = p.oldIndex
	}
	keep := longestIncreasingIndices(seq)
	d.sameMovedTo = make(map[int]int)
	for x, p := range pairs {
		if keep[x] {
			d.newStable[p.newIndex] = true
		} else {
			d.sameMovedTo[p.oldIndex] = p.newIndex
		}
	}
}

func indexMap[K comparable](keys []K) map[K]int {
	m := make(map[K]int, len(keys))
	for i, key := range keys {
		m[key] = i
	}
	return m
}

func containsKey[K comparable, V any](m map[K]V, key K) bool {
	_, ok := m[key]
	return ok
}
