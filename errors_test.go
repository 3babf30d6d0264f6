package salvo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/salvo/blobstore"
	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/generator"
	"github.com/hupe1980/salvo/internal/query"
)

func TestTranslateError(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"corrupt", &dataset.CorruptError{Offset: 3, Cause: boom}, ErrStreamCorrupt},
		{"source", &query.SourceError{Path: "x", Err: boom}, ErrSourceUnavailable},
		{"not found", fmt.Errorf("open: %w", blobstore.ErrNotFound), ErrSourceUnavailable},
		{"generation", generator.ErrGenerationLogic, ErrGenerationLogic},
		{"integrity", dataset.ErrEncodeIntegrity, ErrEncodeIntegrity},
		{"manifest", &dataset.MismatchError{Fields: []string{"count"}}, ErrManifestMismatch},
		{"invalid manifest", fmt.Errorf("%w: version 9", dataset.ErrInvalidManifest), ErrInvalidManifest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			require.ErrorIs(t, got, tt.want)
			// The original chain stays reachable.
			require.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, translateError(nil))
	assert.Equal(t, boom, translateError(boom))
	assert.Equal(t, context.Canceled, translateError(context.Canceled))
}

func TestSourceError(t *testing.T) {
	assert.NoError(t, sourceError("x", nil))
	assert.Equal(t, context.DeadlineExceeded, sourceError("x", context.DeadlineExceeded))

	err := sourceError("boards.bin", os.ErrPermission)
	var se *query.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "boards.bin", se.Path)
	assert.ErrorIs(t, translateError(err), ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestManifestError(t *testing.T) {
	invalid := fmt.Errorf("%w: version 9", dataset.ErrInvalidManifest)
	assert.Equal(t, invalid, manifestError("boards.bin", invalid))

	err := manifestError("boards.bin", os.ErrPermission)
	var se *query.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, dataset.ManifestName("boards.bin"), se.Path)
	assert.ErrorIs(t, translateError(err), ErrSourceUnavailable)
}
