package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/salvo"
	"github.com/hupe1980/salvo/codec"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify NAME",
		Short: "Decode a dataset and check it against its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.engine.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d boards, crc32c %08x, digest %s\n",
				args[0], rep.Summary.Count, rep.CRC32C, rep.Summary.Digest)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "stats NAME",
		Short: "Show the manifest of a dataset",
		Long: `Show the manifest of a dataset. Without a manifest the dataset is
scanned and its content summarized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.engine.Stats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				data, err := codec.MarshalIndent(codec.Default, m)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", data)
				return nil
			}

			fmt.Fprintf(out, "boards:       %d\n", m.Count)
			fmt.Fprintf(out, "size:         %d bytes\n", m.Size)
			fmt.Fprintf(out, "compression:  %s\n", m.Compression)
			fmt.Fprintf(out, "format:       %s\n", m.Format)
			fmt.Fprintf(out, "crc32c:       %08x\n", m.CRC32C)
			fmt.Fprintf(out, "digest:       %s\n", m.Digest)
			if m.Width > 0 {
				fmt.Fprintf(out, "grid:         %dx%d, %s\n", m.Width, m.Height, m.Adjacency)
				fmt.Fprintf(out, "fleet:        %v\n", m.Fleet)
				fmt.Fprintf(out, "canonical:    %t\n", m.CanonicalOnly)
			}

			union, err := m.UnionBoard()
			if err != nil {
				return err
			}
			grid := salvo.StandardGrid
			if m.Width > 0 {
				grid = salvo.Grid{Width: m.Width, Height: m.Height}
			}
			fmt.Fprintf(out, "reachable cells (%d):\n%s", union.Count(), union.Render(grid.Width, grid.Height))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the manifest as JSON")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the datasets in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.engine.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
