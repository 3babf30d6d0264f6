package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addBuildFlags(cmd *cobra.Command, b *BuildConfig) {
	f := cmd.Flags()
	f.IntVar(&b.Width, "width", b.Width, "grid width")
	f.IntVar(&b.Height, "height", b.Height, "grid height")
	f.StringVar(&b.Fleet, "fleet", b.Fleet, "comma separated ship lengths")
	f.StringVar(&b.Adjacency, "adjacency", b.Adjacency, "ship spacing rule: diagonal or orthogonal")
	f.IntVar(&b.Workers, "workers", 0, "generator workers (0 = GOMAXPROCS)")
	f.BoolVar(&b.CanonicalOnly, "canonical", false, "store one board per symmetry class")
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate NAME",
		Short: "Enumerate every legal board and write the dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.Build.Options()
			if err != nil {
				return err
			}
			m, err := a.engine.Build(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wrote %s: %d boards, %d bytes (%s, %s)\n",
				args[0], m.Count, m.Size, m.Compression, m.Format)
			fmt.Fprintf(out, "digest %s\n", m.Digest)
			return nil
		},
	}
	addBuildFlags(cmd, &a.cfg.Build)
	f := cmd.Flags()
	f.StringVar(&a.cfg.Build.Compression, "compression", a.cfg.Build.Compression, "zstd, lz4 or none")
	f.IntVar(&a.cfg.Build.Level, "level", 0, "compression level (0 = compressor default)")
	f.StringVar(&a.cfg.Build.Format, "format", a.cfg.Build.Format, "record format: delta or raw")
	f.StringVar(&a.cfg.Build.Codec, "codec", "", "manifest codec: go-json or json")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the legal boards without writing a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.cfg.Build.Options()
			if err != nil {
				return err
			}
			n, err := a.engine.Count(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	addBuildFlags(cmd, &a.cfg.Build)
	return cmd
}
