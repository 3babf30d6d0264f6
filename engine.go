package salvo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/hupe1980/salvo/blobstore"
	"github.com/hupe1980/salvo/internal/conv"
	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/generator"
	"github.com/hupe1980/salvo/internal/geometry"
	"github.com/hupe1980/salvo/internal/hash"
	"github.com/hupe1980/salvo/internal/query"
	"github.com/hupe1980/salvo/resource"
)

// Engine builds, verifies and queries datasets in a blob store.
// It is safe for concurrent use; calls share no mutable state beyond the
// optional resource controller.
type Engine struct {
	store blobstore.BlobStore
	opts  options
}

// New creates an Engine over store.
func New(store blobstore.BlobStore, optFns ...Option) *Engine {
	return &Engine{store: store, opts: applyOptions(optFns)}
}

// FilterAndCount scans the named dataset and returns the boards that contain
// every cell of hit and none of miss. When the dataset has a manifest its
// record format and canonical-only flag are honoured.
func (e *Engine) FilterAndCount(ctx context.Context, name string, hit, miss Mask) (res Result, err error) {
	start := time.Now()
	scan := query.NewScan()
	defer func() {
		d := time.Since(start)
		e.opts.logger.WithDataset(name).LogQuery(ctx, hit, miss, res.Matches, d, err)
		e.opts.metricsCollector.RecordQuery(scan.Records(), res.Matches, d, err)
	}()

	ctrl := e.opts.controller
	if err := ctrl.AcquireQuery(ctx); err != nil {
		return Result{}, err
	}
	defer ctrl.ReleaseQuery()

	m, err := e.manifest(ctx, name)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return Result{}, translateError(manifestError(name, err))
	}
	if m != nil {
		scan = query.NewScan(manifestQueryOptions(m)...)
	}

	blob, err := e.store.Open(ctx, name)
	if err != nil {
		return Result{}, translateError(sourceError(name, err))
	}
	defer blob.Close()

	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return Result{}, translateError(sourceError(name, err))
	}
	defer r.Close()

	res, err = scan.Run(ctx, resource.NewRateLimitedReader(ctx, r, ctrl), hit, miss)
	if err != nil {
		var se *query.SourceError
		if errors.As(err, &se) && se.Path == "" {
			se.Path = name
		}
		return Result{}, translateError(err)
	}
	return res, nil
}

func manifestQueryOptions(m *Manifest) []query.Option {
	opts := []query.Option{query.WithFormat(m.Format)}
	if m.CanonicalOnly {
		opts = append(opts, query.WithExpandSymmetries(geometry.Grid{Width: m.Width, Height: m.Height}))
	}
	return opts
}

// BuildOptions configures a dataset build. The zero value builds the
// standard 9x9 dataset with zstd at the default level.
type BuildOptions struct {
	// Grid defaults to StandardGrid.
	Grid Grid
	// Fleet defaults to StandardFleet.
	Fleet []int
	// Adjacency defaults to Diagonal.
	Adjacency Adjacency
	// Compression is "zstd" (default), "lz4" or "none".
	Compression string
	// Level is the compressor level; zero uses the compressor default.
	Level int
	// Format defaults to FormatDelta.
	Format Format
	// Workers bounds generator parallelism; zero uses GOMAXPROCS.
	Workers int
	// CanonicalOnly stores one board per symmetry class of a square grid.
	CanonicalOnly bool
}

type buildConfig struct {
	model       geometry.Model
	fleet       generator.Fleet
	compression Compression
	level       int
	format      Format
	workers     int
	canonical   bool
}

func (o BuildOptions) resolve() (buildConfig, error) {
	cfg := buildConfig{
		model:     geometry.Model{Grid: o.Grid, Adjacency: o.Adjacency},
		fleet:     generator.Fleet(o.Fleet),
		level:     o.Level,
		format:    o.Format,
		workers:   o.Workers,
		canonical: o.CanonicalOnly,
	}
	if cfg.model.Grid == (Grid{}) {
		cfg.model.Grid = StandardGrid
	}
	if len(cfg.fleet) == 0 {
		cfg.fleet = generator.StandardFleet
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	c, err := dataset.ParseCompression(o.Compression)
	if err != nil {
		return buildConfig{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	cfg.compression = c
	return cfg, nil
}

// Build enumerates every legal board, validates and encodes them into the
// named dataset, reads the stored dataset back to check it, and finally
// writes the manifest. A dataset that fails the check is deleted.
func (e *Engine) Build(ctx context.Context, name string, opts BuildOptions) (m *Manifest, err error) {
	start := time.Now()
	var (
		count uint64
		size  int64
	)
	log := e.opts.logger.WithDataset(name)
	defer func() {
		d := time.Since(start)
		log.LogBuild(ctx, count, size, d, err)
		e.opts.metricsCollector.RecordBuild(count, size, d, err)
	}()

	cfg, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	ctrl := e.opts.controller
	if err := ctrl.AcquireBuild(ctx); err != nil {
		return nil, err
	}
	defer ctrl.ReleaseBuild()

	g, err := cfg.generator()
	if err != nil {
		return nil, err
	}

	if ctrl.Config().MemoryLimitBytes > 0 {
		n, err := g.Count(ctx)
		if err != nil {
			return nil, translateError(err)
		}
		reserve, err := conv.Bytes(n, dataset.RecordSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		if err := ctrl.AcquireMemory(ctx, reserve); err != nil {
			return nil, err
		}
		defer ctrl.ReleaseMemory(reserve)
	}

	log.DebugContext(ctx, "generating boards",
		"grid", fmt.Sprintf("%dx%d", cfg.model.Grid.Width, cfg.model.Grid.Height),
		"fleet", cfg.fleet.String(),
		"adjacency", cfg.model.Adjacency.String(),
		"workers", cfg.workers,
	)
	boards, err := g.Collect(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	if err := g.Validate(ctx, boards); err != nil {
		return nil, translateError(err)
	}
	count = uint64(len(boards))

	m, err = e.write(ctx, name, boards, cfg)
	if err != nil {
		return nil, translateError(err)
	}
	size = m.Size

	data, err := dataset.MarshalManifest(e.opts.codec, m)
	if err != nil {
		return nil, err
	}
	if err := e.store.Put(ctx, dataset.ManifestName(name), data); err != nil {
		return nil, err
	}
	return m, nil
}

// Count returns the number of boards a build with opts would store,
// without collecting or writing them.
func (e *Engine) Count(ctx context.Context, opts BuildOptions) (uint64, error) {
	cfg, err := opts.resolve()
	if err != nil {
		return 0, err
	}
	g, err := cfg.generator()
	if err != nil {
		return 0, err
	}
	n, err := g.Count(ctx)
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (cfg buildConfig) generator() (*generator.Generator, error) {
	genOpts := []generator.Option{
		generator.WithModel(cfg.model),
		generator.WithFleet(cfg.fleet),
		generator.WithWorkers(cfg.workers),
	}
	if cfg.canonical {
		genOpts = append(genOpts, generator.WithCanonicalOnly())
	}
	g, err := generator.New(genOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return g, nil
}

// write encodes boards into the store and checks the stored bytes.
func (e *Engine) write(ctx context.Context, name string, boards []Mask, cfg buildConfig) (*Manifest, error) {
	w, err := e.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	var crc hash.FileChecksum
	out := resource.NewRateLimitedWriter(ctx, io.MultiWriter(w, &crc), e.opts.controller)
	enc, err := dataset.NewEncoder(out,
		dataset.WithCompression(cfg.compression),
		dataset.WithLevel(cfg.level),
		dataset.WithFormat(cfg.format),
	)
	if err != nil {
		_ = w.Abort()
		return nil, err
	}

	dig := dataset.NewDigester()
	for i, b := range boards {
		if err := enc.Write(b); err != nil {
			_ = w.Abort()
			return nil, err
		}
		dig.Add(b)
		if i%(1<<16) == 0 {
			if err := ctx.Err(); err != nil {
				_ = w.Abort()
				return nil, err
			}
		}
	}
	if err := enc.Close(); err != nil {
		_ = w.Abort()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	size, err := e.check(ctx, name, boards, cfg.format)
	if err == nil && size != crc.Size() {
		err = fmt.Errorf("%w: stored %d bytes, wrote %d", dataset.ErrEncodeIntegrity, size, crc.Size())
	}
	if err != nil {
		_ = e.store.Delete(ctx, name)
		return nil, err
	}

	sum := dig.Summary()
	m := &Manifest{
		Format:        cfg.format,
		Compression:   cfg.compression,
		Level:         cfg.level,
		Digest:        sum.Digest,
		CRC32C:        crc.Sum32(),
		Size:          size,
		Width:         cfg.model.Grid.Width,
		Height:        cfg.model.Grid.Height,
		Adjacency:     cfg.model.Adjacency.String(),
		Fleet:         cfg.fleet.Sorted(),
		CanonicalOnly: cfg.canonical,
		CreatedAt:     time.Now().UTC(),
	}
	m.SetStats(sum.Stats)
	return m, nil
}

// check reads the stored dataset back and compares it with boards.
func (e *Engine) check(ctx context.Context, name string, boards []Mask, format Format) (int64, error) {
	blob, err := e.store.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer blob.Close()

	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	if err := dataset.Check(r, boards, dataset.WithReadFormat(format)); err != nil {
		return 0, err
	}
	return blob.Size(), nil
}

// Report is the outcome of a successful Verify.
type Report struct {
	Manifest *Manifest
	Summary  Summary
	CRC32C   uint32
	Size     int64
}

// Verify decodes the named dataset and compares it with its manifest:
// count, content digest, compression, union, intersection, file checksum,
// size and ascending order.
func (e *Engine) Verify(ctx context.Context, name string) (rep *Report, err error) {
	start := time.Now()
	defer func() {
		var n uint64
		if rep != nil {
			n = rep.Summary.Count
		}
		e.opts.logger.WithDataset(name).LogVerify(ctx, n, err)
		e.opts.metricsCollector.RecordVerify(time.Since(start), err)
	}()

	m, err := e.manifest(ctx, name)
	if err != nil {
		return nil, translateError(manifestError(name, err))
	}

	sum, crc, size, err := e.summarize(ctx, name, m.Format)
	if err != nil {
		return nil, translateError(err)
	}

	var fields []string
	var me *dataset.MismatchError
	if err := m.Compare(sum); errors.As(err, &me) {
		fields = append(fields, me.Fields...)
	}
	if m.CRC32C != crc {
		fields = append(fields, fmt.Sprintf("crc32c: manifest %08x, dataset %08x", m.CRC32C, crc))
	}
	if m.Size != size {
		fields = append(fields, fmt.Sprintf("size: manifest %d, dataset %d", m.Size, size))
	}
	if !sum.Ascending {
		fields = append(fields, "order: boards are not strictly ascending")
	}
	if len(fields) > 0 {
		return nil, translateError(&dataset.MismatchError{Fields: fields})
	}

	return &Report{Manifest: m, Summary: sum, CRC32C: crc, Size: size}, nil
}

// summarize streams the named dataset once, computing its content summary
// and the CRC32C of the stored bytes.
func (e *Engine) summarize(ctx context.Context, name string, format Format) (Summary, uint32, int64, error) {
	if err := e.opts.controller.AcquireQuery(ctx); err != nil {
		return Summary{}, 0, 0, err
	}
	defer e.opts.controller.ReleaseQuery()

	blob, err := e.store.Open(ctx, name)
	if err != nil {
		return Summary{}, 0, 0, sourceError(name, err)
	}
	defer blob.Close()

	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return Summary{}, 0, 0, sourceError(name, err)
	}
	defer r.Close()

	var crc hash.FileChecksum
	tee := io.TeeReader(resource.NewRateLimitedReader(ctx, r, e.opts.controller), &crc)
	sum, err := dataset.Summarize(ctx, tee, dataset.WithReadFormat(format))
	if err != nil {
		return Summary{}, 0, 0, err
	}
	// The decoder may stop at the end of the frame; checksum the rest too.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return Summary{}, 0, 0, sourceError(name, err)
	}
	return sum, crc.Sum32(), crc.Size(), nil
}

// Stats returns the manifest of the named dataset. Without a manifest the
// dataset is scanned and a manifest describing its content is returned;
// geometry fields are then left empty.
func (e *Engine) Stats(ctx context.Context, name string) (*Manifest, error) {
	m, err := e.manifest(ctx, name)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, blobstore.ErrNotFound) {
		return nil, translateError(manifestError(name, err))
	}

	sum, crc, size, err := e.summarize(ctx, name, FormatDelta)
	if err != nil {
		return nil, translateError(err)
	}
	m = &Manifest{
		Version:     dataset.ManifestVersion,
		Format:      FormatDelta,
		Compression: sum.Compression,
		Digest:      sum.Digest,
		CRC32C:      crc,
		Size:        size,
	}
	m.SetStats(sum.Stats)
	return m, nil
}

// List returns the dataset names in the store, without manifests.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	names, err := e.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if !strings.HasSuffix(n, dataset.ManifestSuffix) {
			out = append(out, n)
		}
	}
	return out, nil
}

// manifest reads the sidecar manifest of name.
func (e *Engine) manifest(ctx context.Context, name string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, e.store, dataset.ManifestName(name))
	if err != nil {
		return nil, err
	}
	return dataset.UnmarshalManifest(data)
}
