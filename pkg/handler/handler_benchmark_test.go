package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/config"
)

const benchRows = 50000

// writeBenchCSV creates a CSV source with an Int, Double, Date and String
// column.
func writeBenchCSV(b *testing.B) (string, int64) {
	b.Helper()
	var sb strings.Builder
	sb.WriteString("id,score,seen,name\n")
	for i := 0; i < benchRows; i++ {
		fmt.Fprintf(&sb, "%d,%d.%02d,2024-01-%02d 10:00:00,user_%d\n", i, i%1000, i%100, i%28+1, i)
	}
	path := filepath.Join(b.TempDir(), "bench.csv")
	require.NoError(b, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path, int64(sb.Len())
}

// BenchmarkLoadEntries measures a full ingestion pass at several chunk sizes.
func BenchmarkLoadEntries(b *testing.B) {
	path, size := writeBenchCSV(b)

	for _, chunkSize := range []int64{64 * 1024, 512 * 1024, 0} {
		name := fmt.Sprintf("chunk_%dKB", chunkSize/1024)
		mode := config.LoadChunked
		if chunkSize == 0 {
			name, mode = "whole_file", config.LoadWholeFile
		}
		for _, reader := range []config.ReaderKind{config.ReaderFile, config.ReaderMmap} {
			b.Run(name+"/"+string(reader), func(b *testing.B) {
				cfg := newConfig(path, mode, chunkSize)
				cfg.Reader = reader
				h, err := New(cfg, WithLogger(zap.NewNop()))
				require.NoError(b, err)
				ctx := context.Background()

				b.SetBytes(size)
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					rows := 0
					for {
						ok, err := h.LoadEntries(ctx, StopOnError)
						if err != nil {
							b.Fatal(err)
						}
						if !ok {
							break
						}
						rows += h.Rows()
					}
					if rows != benchRows {
						b.Fatalf("loaded %d rows, want %d", rows, benchRows)
					}
				}
				b.ReportMetric(float64(benchRows*b.N)/b.Elapsed().Seconds(), "rows/sec")
			})
		}
	}
}
