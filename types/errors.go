package types

import "errors"

var (
	// ErrInvalidArgument covers unsupported aggregates, out-of-range sample
	// percents, zero block sizes and empty columns. Surfaced at the planner
	// boundary, never inside the tree.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyData marks a sample request against an empty tree.
	ErrEmptyData = errors.New("empty data")
)
