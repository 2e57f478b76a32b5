// Package diff computes the operation script that transforms one list
// snapshot into another.
//
// Compute works in two phases. The first phase aligns sections: keys present
// in both snapshots keep their state, and a longest common subsequence over
// the two orders decides which surviving sections are stable and which must
// move. Keys only in the old snapshot become section deletes, keys only in
// the new snapshot become section inserts. The second phase aligns rows
// within every surviving section: rows are matched greedily by identity,
// unmatched rows are offered to other sections to detect cross-section
// moves, and a longest increasing subsequence over the matched positions
// separates rows that stay in place from rows that moved within their
// section. Matched rows that stayed put but changed content become refreshes.
//
// # Index spaces
//
// Every operation carries indices in the space a display surface expects
// during a batch update: deletes are indexed into the old snapshot, while
// inserts, moves, and refreshes are indexed into the new one. The script is
// ordered so that a surface applying operations one at a time observes only
// valid indices: section deletes descend through the old order, section
// placements ascend through the new one, row deletes descend per section in
// old-section order, and row inserts ascend per section in new-section
// order, followed by row, header, and footer refreshes.
//
// # Moves
//
// A row move is never a single operation. It is a delete of the old position
// paired with an insert at the new one, each annotated with the coordinates
// of its counterpart. Surfaces that support move animations can reunite the
// pair through the reasons; simpler surfaces apply the two halves literally
// and still converge to the right state.
//
// Apply is the reference interpreter for scripts. It replays a script
// against a flattened State, pulling fresh content from a Source, and
// validates the invariants above as it goes. Surfaces can defer to it, and
// tests use it to prove that Compute's output transforms the old snapshot
// into the new one.
package diff
