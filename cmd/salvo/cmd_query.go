package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/salvo"
	"github.com/hupe1980/salvo/blobstore"
	"github.com/hupe1980/salvo/codec"
	"github.com/hupe1980/salvo/internal/dataset"
)

type queryOutput struct {
	Dataset       string    `json:"dataset"`
	Hit           string    `json:"hit"`
	Miss          string    `json:"miss"`
	Matches       uint64    `json:"matches"`
	Heatmap       []uint32  `json:"heatmap"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		hits, misses string
		jsonOut      bool
		probs        bool
	)
	cmd := &cobra.Command{
		Use:   "query NAME",
		Short: "Count the boards consistent with observed hits and misses",
		Example: `  salvo query boards.bin --hit E5,E6 --miss A1,B2
  salvo query boards.bin --hit 0x1000 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			grid := a.gridOf(ctx, name)

			hit, err := parseCells(hits, grid)
			if err != nil {
				return fmt.Errorf("--hit: %w", err)
			}
			miss, err := parseCells(misses, grid)
			if err != nil {
				return fmt.Errorf("--miss: %w", err)
			}

			res, err := a.engine.FilterAndCount(ctx, name, hit, miss)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeQueryJSON(out, name, hit, miss, res, grid, probs)
			}
			fmt.Fprintf(out, "%d boards match\n", res.Matches)
			fmt.Fprint(out, res.Render(grid))
			if probs && res.Matches > 0 {
				fmt.Fprintln(out)
				fmt.Fprint(out, renderProbabilities(res, grid))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&hits, "hit", "", "cells known to hold a ship")
	f.StringVar(&misses, "miss", "", "cells known to be water")
	f.BoolVar(&jsonOut, "json", false, "print the result as JSON")
	f.BoolVar(&probs, "probabilities", false, "also print per-cell ship probabilities")
	return cmd
}

func writeQueryJSON(w io.Writer, name string, hit, miss salvo.Mask, res salvo.Result, grid salvo.Grid, probs bool) error {
	o := queryOutput{
		Dataset: name,
		Hit:     hit.Hex(),
		Miss:    miss.Hex(),
		Matches: res.Matches,
		Heatmap: res.Heatmap[:grid.Cells()],
	}
	if probs {
		p := res.Probabilities()
		o.Probabilities = p[:grid.Cells()]
	}
	data, err := codec.MarshalIndent(codec.Default, o)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func renderProbabilities(res salvo.Result, grid salvo.Grid) string {
	p := res.Probabilities()
	var sb strings.Builder
	for row := range grid.Height {
		for col := range grid.Width {
			if col > 0 {
				sb.WriteByte(' ')
			}
			idx, _ := grid.Index(row, col)
			fmt.Fprintf(&sb, "%.3f", p[idx])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// gridOf returns the grid recorded in the manifest of name, or the
// standard grid when there is none.
func (a *app) gridOf(ctx context.Context, name string) salvo.Grid {
	m, err := readManifest(ctx, a.store, name)
	if err != nil || m.Width == 0 || m.Height == 0 {
		return salvo.StandardGrid
	}
	return salvo.Grid{Width: m.Width, Height: m.Height}
}

func readManifest(ctx context.Context, store blobstore.BlobStore, name string) (*salvo.Manifest, error) {
	data, err := blobstore.ReadAll(ctx, store, dataset.ManifestName(name))
	if err != nil {
		return nil, err
	}
	return dataset.UnmarshalManifest(data)
}
