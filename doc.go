// Package salvo answers "where can the remaining ships be?" for a salvo-style
// Battleship variant by filtering a precomputed set of every legal board.
//
// The standard game is a 9x9 grid with three ships of length 4 and five of
// length 3. Ships are straight and may not touch, not even at a corner.
// Under these rules there are exactly 213,723,152 legal boards. They are
// enumerated once, offline, into a compact compressed dataset. At game time
// a query streams the dataset once and keeps the boards that contain every
// observed hit and none of the observed misses.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng := salvo.New(blobstore.NewLocalStore("./data"))
//
//	// Offline, once.
//	m, err := eng.Build(ctx, "standard.bin", salvo.BuildOptions{})
//
//	// Per turn.
//	hits := salvo.CellMask(40)
//	misses := salvo.CellMask(0, 1, 2)
//	res, err := eng.FilterAndCount(ctx, "standard.bin", hits, misses)
//	fmt.Println(res.Matches)
//	fmt.Print(res.Render(salvo.StandardGrid))
//
// # Dataset
//
// A dataset is a flat sequence of 16-byte little-endian boards, sorted
// ascending and delta-encoded with XOR against the previous board, then
// compressed as one zstd (default) or lz4 frame. There is no header; a JSON
// manifest is stored next to it under "<name>.manifest.json".
//
// # Queries
//
// A query uses constant memory regardless of dataset size and either
// completes or fails as a whole. It never returns a partial heatmap.
// Failures are reported as ErrSourceUnavailable or ErrStreamCorrupt.
//
// # Foreign callers
//
// FilterAndCountPath takes only primitive arguments and reports failures
// through a Status code. cmd/libsalvo exports it over the C ABI.
package salvo
