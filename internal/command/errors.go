package command

import "errors"

// Validation errors returned by command constructors.
var (
	ErrEmptySelection     = errors.New("no nodes selected")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrInvalidSplit       = errors.New("invalid split position")
	ErrNotContainer       = errors.New("not a point container")
	ErrNotPoint           = errors.New("not a point")
	ErrTooFewContainers   = errors.New("merge needs at least two containers")
	ErrMixedKinds         = errors.New("containers are of different kinds")
	ErrTimeOrder          = errors.New("containers overlap in time")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrNotFile            = errors.New("import needs a detached file node")
)
