// Package tabula ingests CSV and JSON files of any size into typed,
// column-oriented tables, one bounded chunk at a time.
//
// A session opens a source, detects its line ending, reads the header (CSV)
// or the property names of the first object (JSON), and infers one type per
// column from the first record: Int, Double, Date or String. Each call to
// LoadEntries then reads the next chunk of bytes, reassembles records that
// straddle the chunk boundary, and materializes them as a table addressed by
// absolute row index. Rows and columns can be read, edited, searched and
// written back out before the next chunk replaces them.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/tabula/pkg/config"
//	    "github.com/ajitpratap0/tabula/pkg/handler"
//	)
//
//	cfg := config.Default()
//	cfg.Source = "people.csv"
//	cfg.LoadMode = config.LoadAuto
//
//	h, err := handler.New(cfg)
//	if err != nil {
//	    return err
//	}
//	for {
//	    ok, err := h.LoadEntries(ctx, handler.StopOnError)
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        break
//	    }
//	    if err := h.StoreDataInFile(ctx, "people.json", config.FormatJSON, ','); err != nil {
//	        return err
//	    }
//	}
//
// # Key Packages
//
//	pkg/handler      - Ingestion session: chunk loading, addressing, edits, output
//	pkg/table        - Typed columns and the per-chunk table
//	pkg/record       - CSV and JSON record extraction and field splitting
//	pkg/schema       - Column type inference and validation
//	pkg/chunk        - Chunk readers, line ending detection, load mode selection
//	pkg/mmap         - Memory mapped range reads
//	pkg/export       - Arrow records and IPC files, Avro object container output
//	pkg/compression  - Compressed output streams
//	pkg/config       - Session configuration and YAML loading
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus counters for ingestion
//	pkg/observability - Tracing spans
//
// # Command Line
//
// The tabula binary wraps a session:
//
//	tabula inspect people.csv
//	tabula validate people.csv --types string,int
//	tabula convert people.csv -o people.json.gz --load-mode chunked --chunk-size 1048576
//	tabula find people.csv --column age --pattern '^3'
//
// Every flag can also be set with a TABULA_ environment variable or a YAML
// file passed with --config. Environment variables inside the YAML file are
// expanded with ${VAR_NAME} syntax.
package tabula
