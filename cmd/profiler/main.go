package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // intentional profiling endpoint
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/felixge/fgprof"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/afmformats"
	"github.com/meigma/afmformats/internal/testutil"
	"github.com/meigma/afmformats/jpk"
	"github.com/meigma/afmformats/jpk/archive"
)

type config struct {
	mode          string
	input         string
	curves        int
	points        int
	compression   string
	column        string
	workers       int
	cacheCapacity int
	fgProfile     string
	duration      time.Duration
	iterations    int
	pprofAddr     string
	cpuProfile    string
	memProfile    string
	traceFile     string
	tempDir       string
	keepTemp      bool
	verbose       bool
}

//nolint:unused // sink variables prevent compiler optimizations in profiling
var (
	sinkDatasets []*afmformats.Dataset
	sinkMetadata jpk.Metadata
	sinkColumn   jpk.Column
)

//nolint:gocognit,gocyclo // main function complexity is acceptable for CLI tool
func main() {
	cfg := parseFlags()

	if cfg.pprofAddr != "" {
		go func() {
			log.Printf("pprof listening on %s", cfg.pprofAddr)
			//nolint:gosec // intentional pprof server without timeouts for profiling
			if err := http.ListenAndServe(cfg.pprofAddr, nil); err != nil {
				log.Printf("pprof server error: %v", err)
			}
		}()
	}

	path := cfg.input
	if path == "" {
		dir, cleanup, err := setupTempDir(cfg)
		if err != nil {
			log.Fatal(err)
		}
		if cleanup != nil {
			defer cleanup() //nolint:errcheck // cleanup errors are non-fatal in profiler
		}
		path, err = makeArchive(dir, cfg)
		if err != nil {
			log.Fatal(err) //nolint:gocritic // exitAfterDefer is intentional - cleanup is best-effort
		}
	}

	var stopFG func() error
	if cfg.fgProfile != "" {
		fgFile, fgErr := os.Create(cfg.fgProfile)
		if fgErr != nil {
			log.Fatal(fgErr)
		}
		stopFG = fgprof.Start(fgFile, fgprof.FormatPprof)
		defer func() {
			if err := stopFG(); err != nil {
				log.Printf("fgprof stop error: %v", err)
			}
			_ = fgFile.Close()
		}()
	}

	if cfg.cpuProfile != "" {
		cpuFile, cpuErr := os.Create(cfg.cpuProfile)
		if cpuErr != nil {
			log.Fatal(cpuErr)
		}
		if cpuErr = pprof.StartCPUProfile(cpuFile); cpuErr != nil {
			log.Fatal(cpuErr)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = cpuFile.Close()
		}()
	}

	if cfg.traceFile != "" {
		traceFile, traceErr := os.Create(cfg.traceFile)
		if traceErr != nil {
			log.Fatal(traceErr)
		}
		if traceErr = trace.Start(traceFile); traceErr != nil {
			log.Fatal(traceErr)
		}
		defer func() {
			trace.Stop()
			_ = traceFile.Close()
		}()
	}

	stats, err := runProfile(context.Background(), cfg, path)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile != "" {
		runtime.GC()
		f, err := os.Create(cfg.memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
		_ = f.Close()
	}

	fmt.Printf("mode=%s workers=%d ops=%d curves=%d elapsed=%s throughput=%.2f curves/s\n",
		cfg.mode,
		cfg.workers,
		stats.ops,
		stats.curves,
		stats.elapsed,
		float64(stats.curves)/stats.elapsed.Seconds(),
	)
}

type profileStats struct {
	ops     int64
	curves  int64
	elapsed time.Duration
}

// runProfile runs cfg.workers workers until the iteration or time budget is
// spent. Readers and caches are not safe for concurrent use, so every worker
// owns its own archive cache.
//
//nolint:gocritic // hugeParam acceptable for profiler config
func runProfile(ctx context.Context, cfg config, path string) (profileStats, error) {
	start := time.Now()
	var ops, curves atomic.Int64

	shouldContinue := func() bool {
		if cfg.iterations > 0 {
			return ops.Add(1) <= int64(cfg.iterations)
		}
		return time.Since(start) < cfg.duration
	}

	var logger *slog.Logger
	if cfg.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	g, ctx := errgroup.WithContext(ctx)
	for range max(cfg.workers, 1) {
		g.Go(func() error {
			cache, err := archive.New(archive.WithCapacity(cfg.cacheCapacity), archive.WithLogger(logger))
			if err != nil {
				return err
			}
			defer cache.Close()

			op, err := newOp(cfg, path, cache, logger)
			if err != nil {
				return err
			}
			for ctx.Err() == nil && shouldContinue() {
				n, err := op()
				if err != nil {
					return err
				}
				if cfg.iterations == 0 {
					ops.Add(1)
				}
				curves.Add(int64(n))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return profileStats{}, err
	}

	total := ops.Load()
	if cfg.iterations > 0 {
		total = min(total, int64(cfg.iterations))
	}
	return profileStats{
		ops:     total,
		curves:  curves.Load(),
		elapsed: time.Since(start),
	}, nil
}

// newOp returns one profiled operation. It reports the number of curves it
// decoded.
//
//nolint:gocritic // hugeParam acceptable for profiler config
func newOp(cfg config, path string, cache *archive.Cache, logger *slog.Logger) (func() (int, error), error) {
	switch cfg.mode {
	case "load":
		return func() (int, error) {
			ds, err := afmformats.Load(path, afmformats.LoadWithCache(cache), afmformats.LoadWithLogger(logger))
			if err != nil {
				return 0, err
			}
			sinkDatasets = ds
			return len(ds), nil
		}, nil

	case "metadata":
		return func() (int, error) {
			r, err := jpk.New(path, cache, jpk.WithLogger(logger))
			if err != nil {
				return 0, err
			}
			n, err := r.Len()
			if err != nil {
				return 0, err
			}
			for i := range n {
				md, err := r.Metadata(i)
				if err != nil {
					return 0, err
				}
				sinkMetadata = md
			}
			return n, nil
		}, nil

	case "data":
		return func() (int, error) {
			r, err := jpk.New(path, cache, jpk.WithLogger(logger))
			if err != nil {
				return 0, err
			}
			n, err := r.Len()
			if err != nil {
				return 0, err
			}
			for i := range n {
				c, err := r.Data(cfg.column, i)
				if err != nil {
					return 0, err
				}
				sinkColumn = c
			}
			return n, nil
		}, nil

	default:
		return nil, fmt.Errorf("unknown mode: %s", cfg.mode)
	}
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "load", "mode: load, metadata, data")
	flag.StringVar(&cfg.input, "input", "", "JPK file to decode (default: generate a force map)")
	flag.IntVar(&cfg.curves, "curves", 256, "number of curves in the generated force map")
	flag.IntVar(&cfg.points, "points", 1000, "points per segment in the generated force map")
	flag.StringVar(&cfg.compression, "compression", "deflate", "compression of the generated force map: store, deflate or zstd")
	flag.StringVar(&cfg.column, "column", "force", "column to decode in data mode")
	flag.IntVar(&cfg.workers, "workers", 1, "number of concurrent workers, each with its own archive cache")
	flag.IntVar(&cfg.cacheCapacity, "cache-capacity", archive.DefaultCapacity, "open archives per worker")
	flag.StringVar(&cfg.fgProfile, "fgprofile", "", "write fgprof (wall clock) profile to file")
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "duration to run (ignored if iterations > 0)")
	flag.IntVar(&cfg.iterations, "iterations", 0, "number of iterations to run")
	flag.StringVar(&cfg.pprofAddr, "pprof-addr", "", "pprof listen address (e.g. :6060)")
	flag.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flag.StringVar(&cfg.memProfile, "memprofile", "", "write heap profile to file")
	flag.StringVar(&cfg.traceFile, "trace", "", "write trace to file")
	flag.StringVar(&cfg.tempDir, "temp-dir", "", "directory for the generated force map")
	flag.BoolVar(&cfg.keepTemp, "keep-temp", false, "keep temp dir after run")
	flag.BoolVar(&cfg.verbose, "v", false, "log debug events to stderr")
	flag.Parse()
	return cfg
}

//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func setupTempDir(cfg config) (string, func() error, error) {
	if cfg.tempDir != "" {
		return cfg.tempDir, nil, os.MkdirAll(cfg.tempDir, 0o755) //nolint:gosec // 0o755 is intentional for profiler temp dirs
	}
	dir, err := os.MkdirTemp("", "afmformats-profiler-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() error {
		if cfg.keepTemp {
			return nil
		}
		return os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}

//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func makeArchive(dir string, cfg config) (string, error) {
	if cfg.curves <= 0 || cfg.points <= 0 {
		return "", errors.New("curves and points must be positive")
	}
	method, err := parseCompression(cfg.compression)
	if err != nil {
		return "", err
	}
	j := testutil.ForceMap(cfg.curves, cfg.points)
	j.Compression = method
	path := filepath.Join(dir, "profile.jpk-force-map")
	if err := j.Write(path); err != nil {
		return "", err
	}
	return path, nil
}

func parseCompression(name string) (testutil.Compression, error) {
	switch name {
	case "store":
		return testutil.Store, nil
	case "deflate":
		return testutil.Deflate, nil
	case "zstd":
		return testutil.Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %s", name)
	}
}
