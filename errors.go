package salvo

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/salvo/blobstore"
	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/generator"
	"github.com/hupe1980/salvo/internal/query"
)

var (
	// ErrSourceUnavailable indicates that a dataset could not be opened or read.
	ErrSourceUnavailable = errors.New("salvo: source unavailable")

	// ErrStreamCorrupt indicates a damaged dataset: the decompressor failed or
	// the stream ended inside a record.
	ErrStreamCorrupt = errors.New("salvo: stream corrupt")

	// ErrGenerationLogic indicates that the generator emitted a board that
	// violates the placement rules. It is a bug, never an input error.
	ErrGenerationLogic = errors.New("salvo: generation logic error")

	// ErrEncodeIntegrity indicates that an encoded dataset did not decode back
	// to the boards that were written.
	ErrEncodeIntegrity = errors.New("salvo: encode integrity error")

	// ErrManifestMismatch indicates that a dataset does not match its manifest.
	ErrManifestMismatch = errors.New("salvo: manifest mismatch")

	// ErrInvalidManifest indicates a sidecar manifest that exists but cannot
	// be decoded or describes an unusable dataset.
	ErrInvalidManifest = errors.New("salvo: invalid manifest")

	// ErrInvalidArgument is returned for malformed options.
	ErrInvalidArgument = errors.New("salvo: invalid argument")
)

// translateError maps internal errors onto the exported sentinels while
// keeping the original chain reachable through errors.Is and errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch {
	case errors.Is(err, dataset.ErrInvalidManifest):
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	case errors.Is(err, dataset.ErrStreamCorrupt):
		return fmt.Errorf("%w: %w", ErrStreamCorrupt, err)
	case errors.Is(err, query.ErrSourceUnavailable), errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	case errors.Is(err, generator.ErrGenerationLogic):
		return fmt.Errorf("%w: %w", ErrGenerationLogic, err)
	case errors.Is(err, dataset.ErrEncodeIntegrity):
		return fmt.Errorf("%w: %w", ErrEncodeIntegrity, err)
	case errors.Is(err, dataset.ErrManifestMismatch):
		return fmt.Errorf("%w: %w", ErrManifestMismatch, err)
	}
	return err
}

// manifestError marks a failure to read the manifest of name as an
// unavailable source. A manifest that was read but is invalid stays as is.
func manifestError(name string, err error) error {
	if errors.Is(err, dataset.ErrInvalidManifest) {
		return err
	}
	return sourceError(dataset.ManifestName(name), err)
}

// sourceError marks a store failure as an unavailable source.
func sourceError(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &query.SourceError{Path: name, Err: err}
}
