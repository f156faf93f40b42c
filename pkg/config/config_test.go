package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

func TestDefaultIsValidOnceSourceSet(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.Validate())

	cfg.Source = "data.csv"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, byte(','), cfg.Delim())
	assert.True(t, cfg.HasHeader())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad load mode", func(c *Config) { c.LoadMode = "streaming" }},
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"avro source", func(c *Config) { c.Format = FormatAvro }},
		{"bad header mode", func(c *Config) { c.HeaderMode = "maybe" }},
		{"bad reader", func(c *Config) { c.Reader = "net" }},
		{"long delimiter", func(c *Config) { c.Delimiter = ";;" }},
		{"quote delimiter", func(c *Config) { c.Delimiter = `"` }},
		{"zero chunk", func(c *Config) { c.ChunkSize = 0 }},
		{"bad output format", func(c *Config) { c.Output.Format = "parquet" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Source = "data.csv"
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestOutputDelimFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Delimiter = ";"
	cfg.Output.Delimiter = ""
	assert.Equal(t, byte(';'), cfg.OutputDelim())

	cfg.Output.Delimiter = "|"
	assert.Equal(t, byte('|'), cfg.OutputDelim())
}

func TestLoadConfigSubstitutesEnv(t *testing.T) {
	t.Setenv("TABULA_TEST_DIR", "/data")

	path := filepath.Join(t.TempDir(), "tabula.yaml")
	content := `source: ${TABULA_TEST_DIR}/orders.csv
load_mode: whole_file
delimiter: ";"
chunk_size: 1024
output:
  path: out.json.gz
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/orders.csv", cfg.Source)
	assert.Equal(t, LoadWholeFile, cfg.LoadMode)
	assert.Equal(t, byte(';'), cfg.Delim())
	assert.Equal(t, int64(1024), cfg.ChunkSize)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	// untouched keys keep their defaults
	assert.Equal(t, HeaderInclude, cfg.HeaderMode)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Source = "in.csv"
	cfg.Output.Compression = "zstd"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
