package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hupe1980/salvo"
)

// parseCells parses a comma separated list of cells on g. A cell is either
// a coordinate with a row letter and a 1-based column ("A1", "c7") or a
// cell index ("37"). A single "0x"-prefixed token is a hex mask.
func parseCells(s string, g salvo.Grid) (salvo.Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return salvo.Mask{}, nil
	}
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		m, err := salvo.ParseMask(hex)
		if err != nil {
			return salvo.Mask{}, err
		}
		if !g.InBounds(m) {
			return salvo.Mask{}, fmt.Errorf("mask %s has cells outside the %dx%d grid", s, g.Width, g.Height)
		}
		return m, nil
	}

	var m salvo.Mask
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		cell, err := parseCell(tok, g)
		if err != nil {
			return salvo.Mask{}, err
		}
		m = m.With(cell)
	}
	return m, nil
}

func parseCell(tok string, g salvo.Grid) (int, error) {
	if n, err := strconv.Atoi(tok); err == nil {
		if _, _, ok := g.Coord(n); !ok {
			return 0, fmt.Errorf("cell %d outside the %dx%d grid", n, g.Width, g.Height)
		}
		return n, nil
	}

	r := unicode.ToUpper(rune(tok[0]))
	col, err := strconv.Atoi(tok[1:])
	if r < 'A' || r > 'Z' || err != nil {
		return 0, fmt.Errorf("invalid cell %q", tok)
	}
	idx, ok := g.Index(int(r-'A'), col-1)
	if !ok {
		return 0, fmt.Errorf("cell %s outside the %dx%d grid", tok, g.Width, g.Height)
	}
	return idx, nil
}
