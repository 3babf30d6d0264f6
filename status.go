package salvo

import (
	"context"
	"errors"
	iofs "io/fs"

	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/fs"
	"github.com/hupe1980/salvo/internal/query"
)

// Status is the out-of-band outcome of FilterAndCountPath.
type Status int32

const (
	StatusOK Status = iota
	StatusSourceUnavailable
	StatusStreamCorrupt
	StatusInvalidArgument
	// StatusInvalidManifest reports a sidecar manifest that exists but
	// cannot be used. The dataset is not scanned.
	StatusInvalidManifest
	StatusCancelled
	// StatusInternal covers errors that fit no other status.
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSourceUnavailable:
		return "source unavailable"
	case StatusStreamCorrupt:
		return "stream corrupt"
	case StatusInvalidArgument:
		return "invalid argument"
	case StatusInvalidManifest:
		return "invalid manifest"
	case StatusCancelled:
		return "cancelled"
	case StatusInternal:
		return "internal error"
	default:
		return "unknown status"
	}
}

// StatusOf maps an error onto a Status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	case errors.Is(err, ErrInvalidManifest), errors.Is(err, dataset.ErrInvalidManifest):
		return StatusInvalidManifest
	case errors.Is(err, ErrStreamCorrupt), errors.Is(err, dataset.ErrStreamCorrupt):
		return StatusStreamCorrupt
	case errors.Is(err, ErrSourceUnavailable), errors.Is(err, query.ErrSourceUnavailable):
		return StatusSourceUnavailable
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	default:
		return StatusInternal
	}
}

// FilterAndCountPath is the primitive-typed query boundary. It scans the
// dataset file at path ("-" for standard input), writes the heatmap into
// out[:Cells] and returns the match count.
//
// out must hold at least Cells counters. On any failure the count is zero,
// out[:Cells] is zeroed when it is large enough, and the status names the
// failure. A sidecar manifest next to path selects the record format; when
// it exists but is invalid the dataset is not scanned.
func FilterAndCountPath(path string, hitLo, hitHi, missLo, missHi uint64, out []uint32) (uint64, Status) {
	if len(out) < Cells {
		return 0, StatusInvalidArgument
	}
	clear(out[:Cells])

	m, err := sidecarManifest(path)
	if err != nil {
		return 0, StatusOf(translateError(err))
	}
	var opts []query.Option
	if m != nil {
		opts = manifestQueryOptions(m)
	}

	res, err := query.FilterAndCountFile(context.Background(), path,
		MaskFromHalves(hitLo, hitHi), MaskFromHalves(missLo, missHi), opts...)
	if err != nil {
		return 0, StatusOf(translateError(err))
	}
	copy(out, res.Heatmap[:])
	return res.Matches, StatusOK
}

// sidecarManifest reads the manifest next to path. It returns nil without
// error when there is none.
func sidecarManifest(path string) (*Manifest, error) {
	if path == query.Stdin {
		return nil, nil
	}
	name := dataset.ManifestName(path)
	data, err := fs.Default.ReadFile(name)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &query.SourceError{Path: name, Err: err}
	}
	return dataset.UnmarshalManifest(data)
}
