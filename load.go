package afmformats

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/meigma/afmformats/jpk"
	"github.com/meigma/afmformats/jpk/archive"
)

// Format describes a supported file format.
type Format struct {
	// Suffix is the file name extension, including the dot.
	Suffix string

	// Maker is the instrument manufacturer.
	Maker string

	// Mode is the imaging modality of the curves in the file.
	Mode string

	load func(path string, cfg *loadConfig) ([]*Dataset, error)
}

var formats = []Format{
	{Suffix: ".jpk-force", Maker: "JPK Instruments", Mode: ModeForceDistance, load: loadJPK},
	{Suffix: ".jpk-force-map", Maker: "JPK Instruments", Mode: ModeForceDistance, load: loadJPK},
	{Suffix: ".jpk-qi-data", Maker: "JPK Instruments", Mode: ModeForceDistance, load: loadJPK},
}

// Formats returns the supported file formats.
func Formats() []Format {
	return slices.Clone(formats)
}

// SupportedExtensions returns the supported file suffixes in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(formats))
	for _, f := range formats {
		exts = append(exts, f.Suffix)
	}
	slices.Sort(exts)
	return exts
}

// Load decodes every curve of the file at path.
//
// The format is chosen by file suffix. A file either loads completely or
// Load returns an error; there are no partial results.
func Load(path string, opts ...LoadOption) ([]*Dataset, error) {
	cfg := loadConfig{
		mode:    ModeForceDistance,
		columns: slices.Clone(DefaultColumns),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	suffix := filepath.Ext(path)
	i := slices.IndexFunc(formats, func(f Format) bool { return f.Suffix == suffix })
	if i < 0 {
		return nil, fmt.Errorf("%w: file extension %q of %s", ErrUnsupportedFormat, suffix, path)
	}
	f := formats[i]
	if cfg.mode != f.Mode {
		return nil, fmt.Errorf("%w: mode %q for %s files", ErrUnsupportedFormat, cfg.mode, f.Suffix)
	}
	return f.load(path, &cfg)
}

func (cfg *loadConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}

func loadJPK(path string, cfg *loadConfig) (_ []*Dataset, err error) {
	cache := cfg.cache
	if cache == nil {
		cache, err = archive.New(archive.WithLogger(cfg.logger))
		if err != nil {
			return nil, err
		}
		defer func() {
			err = errors.Join(err, cache.Close())
		}()
	}

	opts := append([]jpk.Option{jpk.WithLogger(cfg.logger)}, cfg.readerOpts...)
	r, err := jpk.New(path, cache, opts...)
	if err != nil {
		return nil, err
	}
	n, err := r.Len()
	if err != nil {
		return nil, err
	}

	out := make([]*Dataset, 0, n)
	for i := range n {
		ds, err := loadCurve(r, i, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{Path: path, CurvesDone: i + 1, CurvesTotal: n})
		}
	}
	cfg.log().Debug("file loaded", "path", path, "curves", n)
	return out, nil
}

// loadCurve reads the metadata and columns of one curve. Columns the file does
// not record are skipped; any other failure fails the curve.
func loadCurve(r *jpk.Reader, index int, cfg *loadConfig) (*Dataset, error) {
	md, err := r.Metadata(index)
	if err != nil {
		return nil, err
	}
	raw := make(map[string]Column, len(cfg.columns))
	for _, col := range cfg.columns {
		c, err := r.Data(col, index)
		if errors.Is(err, ErrChannelNotFound) {
			cfg.log().Debug("column skipped", "path", r.Path(), "index", index, "column", col, "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		raw[col] = c
	}
	ds, err := NewDataset(raw, md)
	if err != nil {
		return nil, fmt.Errorf("%s: curve %d: %w", r.Path(), index, err)
	}
	return ds, nil
}
