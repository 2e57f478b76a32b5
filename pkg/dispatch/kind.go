package dispatch

// Kind identifies one of the callback slots a handler can occupy.
type Kind int

const (
	// KindRowContent supplies the display content of a row.
	KindRowContent Kind = iota
	// KindRowHeight supplies the display height of a row.
	KindRowHeight
	// KindHeaderContent supplies a section's header content.
	KindHeaderContent
	// KindFooterContent supplies a section's footer content.
	KindFooterContent
	// KindRowDeleted notifies that a row left the list.
	KindRowDeleted
	// KindRowInserted notifies that a row entered the list.
	KindRowInserted
	// KindRowMoved notifies that a row changed position, possibly across
	// sections.
	KindRowMoved
)

// String returns the kind's stable name.
func (k Kind) String() string {
	switch k {
	case KindRowContent:
		return "row-content"
	case KindRowHeight:
		return "row-height"
	case KindHeaderContent:
		return "header-content"
	case KindFooterContent:
		return "footer-content"
	case KindRowDeleted:
		return "row-deleted"
	case KindRowInserted:
		return "row-inserted"
	case KindRowMoved:
		return "row-moved"
	}
	return "unknown"
}

// AllowsAnySection reports whether the kind accepts an any-section handler.
// Content-producing kinds need section-specific knowledge to build anything
// sensible, so only row height and the notifications qualify.
func (k Kind) AllowsAnySection() bool {
	switch k {
	case KindRowHeight, KindRowDeleted, KindRowInserted, KindRowMoved:
		return true
	}
	return false
}

// Notification reports whether the kind is fire-and-forget rather than a
// value pull.
func (k Kind) Notification() bool {
	switch k {
	case KindRowDeleted, KindRowInserted, KindRowMoved:
		return true
	}
	return false
}
