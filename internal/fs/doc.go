// Package fs abstracts the file system operations behind local datasets,
// so tests can inject open, write, sync, close and rename failures.
//
// LocalFS forwards to the os package. FaultyFS wraps any FileSystem and
// fails operations on files whose name contains a configured pattern:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp", fs.Fault{FailAfterBytes: 1024})
//
// A failed write never reaches the wrapped file.
package fs
