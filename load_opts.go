package afmformats

import (
	"log/slog"
	"slices"

	"github.com/meigma/afmformats/jpk"
	"github.com/meigma/afmformats/jpk/archive"
)

// DefaultColumns are the columns Load decodes unless LoadWithColumns is used.
var DefaultColumns = []string{
	"force",
	"height (measured)",
	"height (piezo)",
	"segment",
	"time",
}

// LoadOption configures a Load operation.
type LoadOption func(*loadConfig)

type loadConfig struct {
	cache      *archive.Cache
	progress   ProgressFunc
	logger     *slog.Logger
	mode       string
	columns    []string
	readerOpts []jpk.Option
}

// LoadWithCache opens archives through cache instead of a private cache.
// The caller keeps ownership of cache and must close it.
func LoadWithCache(cache *archive.Cache) LoadOption {
	return func(cfg *loadConfig) {
		cfg.cache = cache
	}
}

// LoadWithProgress sets a callback that is invoked after every loaded curve.
func LoadWithProgress(fn ProgressFunc) LoadOption {
	return func(cfg *loadConfig) {
		cfg.progress = fn
	}
}

// LoadWithLogger sets the logger for debug events.
func LoadWithLogger(logger *slog.Logger) LoadOption {
	return func(cfg *loadConfig) {
		cfg.logger = logger
	}
}

// LoadWithMode selects the imaging modality. Only "force-distance" is
// supported, which is also the default.
func LoadWithMode(mode string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.mode = mode
	}
}

// LoadWithColumns sets the columns to decode. Columns whose channel is
// absent from a file are skipped.
func LoadWithColumns(columns ...string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.columns = slices.Clone(columns)
	}
}

// --- Reader options (passed to jpk.Reader) ---

// LoadWithReaderOptions passes options to the underlying jpk.Reader, e.g.
// custom metadata recipes or channel decoders.
func LoadWithReaderOptions(opts ...jpk.Option) LoadOption {
	return func(cfg *loadConfig) {
		cfg.readerOpts = append(cfg.readerOpts, opts...)
	}
}
