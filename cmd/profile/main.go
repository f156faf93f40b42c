// Command profile runs one ingestion pass over a file while collecting
// pprof profiles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/handler"
	"github.com/ajitpratap0/tabula/pkg/logger"
)

func main() {
	// Command-line flags
	var (
		source       = flag.String("source", "", "CSV or JSON file to ingest (required)")
		format       = flag.String("format", "csv", "Source format: csv or json")
		chunkSize    = flag.Int64("chunk-size", 4*1024*1024, "Bytes per chunk")
		reader       = flag.String("reader", "file", "Chunk reader backend: file or mmap")
		storeTo      = flag.String("store", "", "Also store every chunk to this file")
		timeout      = flag.Duration("timeout", 5*time.Minute, "Abort the pass after this long")
		outputDir    = flag.String("output", "./profiles", "Output directory for profiles")
		profileTypes = flag.String("types", "cpu,memory", "Profile types (cpu,memory,block,mutex,goroutine,all)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -source FILE [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -source big.csv -types cpu\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -source big.json -format json -reader mmap -types all\n", os.Args[0])
	}

	flag.Parse()
	if *source == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := logger.Init(logger.Config{Level: "warn", Encoding: "console", OutputPaths: []string{"stderr"}}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	plog := logger.With(zap.String("component", "profile"), zap.String("source", *source))

	types := parseProfileTypes(*profileTypes)
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatal("failed to create output directory", zap.Error(err))
	}
	if slices.Contains(types, "block") {
		runtime.SetBlockProfileRate(1)
	}
	if slices.Contains(types, "mutex") {
		runtime.SetMutexProfileFraction(1)
	}

	cfg := config.Default()
	cfg.Source = *source
	cfg.Format = config.Format(*format)
	cfg.ChunkSize = *chunkSize
	cfg.Reader = config.ReaderKind(*reader)
	if info, err := os.Stat(*source); err == nil && info.Size() <= *chunkSize {
		cfg.LoadMode = config.LoadWholeFile
	}

	if slices.Contains(types, "cpu") {
		f, err := os.Create(filepath.Join(*outputDir, "cpu.prof"))
		if err != nil {
			logger.Fatal("failed to create CPU profile", zap.Error(err))
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal("failed to start CPU profile", zap.Error(err))
		}
		fmt.Printf("CPU profiling enabled, writing to: %s\n", f.Name())
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	rows, chunks, err := ingest(ctx, cfg, *storeTo, plog)
	elapsed := time.Since(start)
	pprof.StopCPUProfile()
	if err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}
	fmt.Printf("Ingested %d rows in %d chunks in %v (%.0f rows/sec)\n",
		rows, chunks, elapsed, float64(rows)/elapsed.Seconds())

	if slices.Contains(types, "memory") {
		runtime.GC() // Get up-to-date statistics
		writeProfile("heap", filepath.Join(*outputDir, "mem.prof"))
	}
	for _, profileType := range types {
		switch profileType {
		case "block", "mutex", "goroutine":
			writeProfile(profileType, filepath.Join(*outputDir, profileType+".prof"))
		}
	}

	fmt.Printf("Profiling completed successfully\n")
}

// ingest loads every chunk of the source, optionally storing each one.
func ingest(ctx context.Context, cfg *config.Config, storeTo string, log *zap.Logger) (rows, chunks int, err error) {
	h, err := handler.New(cfg, handler.WithLogger(log))
	if err != nil {
		return 0, 0, err
	}
	defer h.Close()
	for {
		ok, err := h.LoadEntries(ctx, handler.IgnoreErrors)
		if err != nil {
			return rows, chunks, err
		}
		if !ok {
			return rows, chunks, nil
		}
		rows += h.Rows()
		chunks++
		if storeTo != "" {
			if err := h.StoreDataInFile(ctx, storeTo, cfg.Output.Format, cfg.OutputDelim()); err != nil {
				return rows, chunks, err
			}
		}
	}
}

// writeProfile writes a specific profile type to file
func writeProfile(profileName, filename string) {
	profile := pprof.Lookup(profileName)
	if profile == nil {
		logger.Warn("profile not found", zap.String("profile", profileName))
		return
	}

	f, err := os.Create(filename)
	if err != nil {
		logger.Warn("failed to create profile", zap.String("profile", profileName), zap.Error(err))
		return
	}
	defer f.Close()

	if err := profile.WriteTo(f, 0); err != nil {
		logger.Warn("failed to write profile", zap.String("profile", profileName), zap.Error(err))
		return
	}

	fmt.Printf("%s profile written to: %s\n", profileName, filename)
}

// parseProfileTypes parses the profile types string
func parseProfileTypes(typesStr string) []string {
	if typesStr == "all" {
		return []string{"cpu", "memory", "block", "mutex", "goroutine"}
	}

	parts := strings.Split(typesStr, ",")
	types := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "mem" {
			part = "memory"
		}
		switch part {
		case "cpu", "memory", "block", "mutex", "goroutine":
			types = append(types, part)
		}
	}
	return types
}
