package utils

import "errors"

// ErrInvalidArgument is wrapped by operations that reject their input before
// doing any work, such as a non-positive top-k.
var ErrInvalidArgument = errors.New("invalid argument")
