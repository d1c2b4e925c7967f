package collision

import "github.com/pkg/errors"

func newBadDimensionsError(shape string) error {
	return errors.Errorf("%s dimensions must be non-negative", shape)
}

func newBadCapsuleLengthError(length, radius float32) error {
	return errors.Errorf("capsule length %f must be at least twice the radius %f", length, radius)
}

func newEmptyShapeError(shape string) error {
	return errors.Errorf("%s must have at least one element", shape)
}

func newNestedCompoundError(index int) error {
	return errors.Errorf("compound child %d is itself a compound; compounds may not be nested", index)
}
