package layout

import "errors"

var (
	// ErrInvalidBounds indicates a non-positive surface or a padding that
	// leaves no interior region (2*padding >= min(width, height)).
	ErrInvalidBounds = errors.New("layout: bounds leave no interior region")
	// ErrInvalidParams indicates a non-positive MinDistance, a negative
	// Padding, or unusable Options.
	ErrInvalidParams = errors.New("layout: invalid resolution parameters")
	// ErrEmptyLabel indicates a marker without a label.
	ErrEmptyLabel = errors.New("layout: marker label must be non-empty")
	// ErrDuplicateLabel indicates two markers sharing a label.
	ErrDuplicateLabel = errors.New("layout: marker labels must be unique")
	// ErrNonFiniteCoordinate indicates a NaN or infinite marker coordinate.
	ErrNonFiniteCoordinate = errors.New("layout: marker coordinates must be finite")
)
