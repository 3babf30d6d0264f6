// Package testutil provides testing utilities for Salvo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG for random constraints, a brute-force board
// enumerator that serves as an oracle for the generator, and an exact
// filter over in-memory boards that serves as ground truth for queries.
//
// # Random Constraints
//
//	rng := testutil.NewRNG(seed)
//	hit, miss := rng.Constraint(boards, 3, 5)
//
// # Brute-Force Oracle
//
//	boards := testutil.BruteForceBoards(model, []int{3, 2})
//
// # Exact Filter (Ground Truth)
//
//	matches, heatmap := testutil.ExactFilter(boards, hit, miss)
package testutil
