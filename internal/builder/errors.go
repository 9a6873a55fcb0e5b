package builder

import "errors"

var (
	// ErrDuplicateID is returned when an insert would create a second node
	// with an id that already exists somewhere in the current page tree.
	ErrDuplicateID = errors.New("builder: duplicate component id")

	// ErrIndexRange is returned by reorder operations when an index falls
	// outside the root-level component list.
	ErrIndexRange = errors.New("builder: index out of range")

	// ErrNoPage is returned by operations that need a current page when
	// none is set and none can be synthesized.
	ErrNoPage = errors.New("builder: no current page")
)
