package salvo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/salvo"
	"github.com/hupe1980/salvo/blobstore"
)

// Example builds a small dataset in memory and queries it.
func Example() {
	ctx := context.Background()
	eng := salvo.New(blobstore.NewMemoryStore())

	m, err := eng.Build(ctx, "small.bin", salvo.BuildOptions{
		Grid:        salvo.Grid{Width: 5, Height: 5},
		Fleet:       []int{3, 2, 2},
		Compression: "lz4",
	})
	if err != nil {
		log.Fatal(err)
	}

	// No observations: every board matches.
	res, err := eng.FilterAndCount(ctx, "small.bin", salvo.Mask{}, salvo.Mask{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Matches == m.Count)

	// A miss in the corner rules out every board with a ship there.
	corner, err := eng.FilterAndCount(ctx, "small.bin", salvo.Mask{}, salvo.CellMask(0))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(corner.Heatmap[0], corner.Matches < m.Count)
	// Output:
	// true
	// 0 true
}

// ExampleEngine_Verify checks a dataset against its manifest.
func ExampleEngine_Verify() {
	ctx := context.Background()
	eng := salvo.New(blobstore.NewMemoryStore())

	if _, err := eng.Build(ctx, "small.bin", salvo.BuildOptions{
		Grid:        salvo.Grid{Width: 5, Height: 5},
		Fleet:       []int{3, 2},
		Compression: "none",
	}); err != nil {
		log.Fatal(err)
	}

	rep, err := eng.Verify(ctx, "small.bin")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rep.Summary.Ascending, rep.Size == rep.Manifest.Size)
	// Output: true true
}

// ExampleFilterAndCountPath shows the primitive-typed boundary.
func ExampleFilterAndCountPath() {
	out := make([]uint32, salvo.Cells)
	n, status := salvo.FilterAndCountPath("does-not-exist.bin", 0, 0, 0, 0, out)
	fmt.Println(n, status)
	// Output: 0 source unavailable
}
