// Package resource bounds the resources shared by concurrent dataset
// operations: query admission, build memory and IO throughput.
//
// A nil *Controller imposes no limits.
package resource
