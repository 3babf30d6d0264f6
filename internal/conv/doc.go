// Package conv provides checked integer conversions for sizes that cross a
// trust boundary: board counts turned into byte reservations and buffer
// lengths handed in from C callers.
package conv
