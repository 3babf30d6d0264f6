package generator

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Fleet is the multiset of ship lengths placed on every board.
type Fleet []int

// StandardFleet is three ships of length 4 and five of length 3 (27 cells).
var StandardFleet = Fleet{4, 4, 4, 3, 3, 3, 3, 3}

// Cells returns the number of occupied cells on a complete board.
func (f Fleet) Cells() int {
	n := 0
	for _, l := range f {
		n += l
	}
	return n
}

// Validate rejects empty fleets and non-positive lengths.
func (f Fleet) Validate() error {
	if len(f) == 0 {
		return errors.New("generator: empty fleet")
	}
	for _, l := range f {
		if l <= 0 {
			return fmt.Errorf("generator: invalid ship length %d", l)
		}
	}
	return nil
}

// Sorted returns the lengths in descending order.
func (f Fleet) Sorted() Fleet {
	s := slices.Clone(f)
	slices.SortFunc(s, func(a, b int) int { return b - a })
	return s
}

func (f Fleet) String() string {
	parts := make([]string, len(f))
	for i, l := range f.Sorted() {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ",")
}

// ParseFleet parses a comma separated list of ship lengths.
func ParseFleet(s string) (Fleet, error) {
	var f Fleet
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		l, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("generator: invalid fleet %q: %w", s, err)
		}
		f = append(f, l)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// group is a run of interchangeable ships of one length.
type group struct {
	length int
	count  int
}

// groups returns same-length runs, longest ships first.
func (f Fleet) groups() []group {
	var out []group
	for _, l := range f.Sorted() {
		if n := len(out); n > 0 && out[n-1].length == l {
			out[n-1].count++
			continue
		}
		out = append(out, group{length: l, count: 1})
	}
	return out
}
