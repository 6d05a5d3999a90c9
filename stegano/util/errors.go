package util

import (
	"errors"
	"fmt"
)

/*
 * error kinds shared by the whole steganography stack.
 * everything else wraps one of these with %w, so callers
 * can always sort a failure out with errors.Is.
 */
var (
	ErrConfig           = errors.New("invalid configuration")
	ErrValidation       = errors.New("invalid input")
	ErrCapacityExceeded = errors.New("message does not fit into the image")
	ErrIntegrity        = errors.New("integrity violated")
	ErrNotFound         = errors.New("no embedded message found")
)

// CapacityError reports how many frame bytes were needed and how many
// the image can carry.
type CapacityError struct {
	Need int
	Max  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d bytes needed, %d available", ErrCapacityExceeded.Error(), e.Need, e.Max)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
