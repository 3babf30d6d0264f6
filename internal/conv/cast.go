package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("conv: integer overflow")

// Uint64ToInt converts v to int.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d does not fit int", ErrOverflow, v)
	}
	return int(v), nil
}

// Uint64ToInt64 converts v to int64.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d does not fit int64", ErrOverflow, v)
	}
	return int64(v), nil
}

// Bytes returns count records of size bytes each as an int64 byte count.
func Bytes(count uint64, size int) (int64, error) {
	if size < 0 {
		return 0, fmt.Errorf("%w: negative record size %d", ErrOverflow, size)
	}
	if size != 0 && count > math.MaxInt64/uint64(size) {
		return 0, fmt.Errorf("%w: %d records of %d bytes", ErrOverflow, count, size)
	}
	return int64(count) * int64(size), nil
}
