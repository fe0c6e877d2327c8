// Package model holds the mind-map tree: node identity, parent/child links and
// the per-node display metadata that the layout engine fills in.
package model

import "errors"

// Structural errors
var (
	// ErrInvalidOperation indicates a mutation that would break the tree:
	// moving or deleting the root, moving a node into itself or into one of
	// its own descendants, or targeting a node that is not in the tree.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound indicates that an id does not name a node in the tree.
	ErrNotFound = errors.New("node not found")

	// ErrDuplicateID indicates that an attached node reused an existing id.
	ErrDuplicateID = errors.New("duplicate node id")
)
