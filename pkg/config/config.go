package config

import (
	"github.com/ajitpratap0/tabula/pkg/errors"
)

// DefaultChunkSize is the number of bytes read per chunk in chunked mode.
const DefaultChunkSize int64 = 32 * 1024 * 1024

// LoadMode selects how the source is brought into memory.
type LoadMode string

const (
	// LoadWholeFile reads the entire source as one chunk.
	LoadWholeFile LoadMode = "whole_file"
	// LoadChunked reads the source in ChunkSize pieces.
	LoadChunked LoadMode = "chunked"
	// LoadAuto picks whole-file when the source fits comfortably in
	// available memory and chunked otherwise.
	LoadAuto LoadMode = "auto"
)

// Format is a source or output data format.
type Format string

const (
	// FormatCSV is delimiter separated text, one record per line.
	FormatCSV Format = "csv"
	// FormatJSON is an array of flat objects.
	FormatJSON Format = "json"
	// FormatAvro is an Avro object container file. Output only.
	FormatAvro Format = "avro"
	// FormatArrow is an Arrow IPC file with one record batch per chunk.
	// Output only.
	FormatArrow Format = "arrow"
)

// HeaderMode controls how the first CSV line is treated.
type HeaderMode string

const (
	// HeaderInclude reads the first line as column captions.
	HeaderInclude HeaderMode = "include"
	// HeaderSkip drops the first line.
	HeaderSkip HeaderMode = "skip"
	// HeaderNone treats the first line as data.
	HeaderNone HeaderMode = "none"
)

// ReaderKind selects the chunk reader backend.
type ReaderKind string

const (
	// ReaderFile uses positioned reads on an os.File.
	ReaderFile ReaderKind = "file"
	// ReaderMmap maps the requested range of the file.
	ReaderMmap ReaderKind = "mmap"
)

// Config is the configuration of one ingestion session.
type Config struct {
	// Source is the path of the CSV or JSON file to ingest
	Source string `yaml:"source" json:"source"`
	// LoadMode is whole_file, chunked or auto
	LoadMode LoadMode `yaml:"load_mode" json:"load_mode"`
	// Format of the source
	Format Format `yaml:"format" json:"format"`
	// Delimiter separates CSV fields; a single byte
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// HeaderMode is include, skip or none
	HeaderMode HeaderMode `yaml:"header_mode" json:"header_mode"`
	// ChunkSize is the number of bytes read per chunk
	ChunkSize int64 `yaml:"chunk_size" json:"chunk_size"`
	// Reader is the chunk reader backend
	Reader ReaderKind `yaml:"reader" json:"reader"`

	Output        OutputConfig        `yaml:"output" json:"output"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// OutputConfig describes the default destination used by the CLI.
type OutputConfig struct {
	Path      string `yaml:"path" json:"path"`
	Format    Format `yaml:"format" json:"format"`
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// Compression is none, gzip, zstd, snappy, s2 or lz4. Empty means
	// derive it from the path suffix.
	Compression string `yaml:"compression" json:"compression"`
	Level       string `yaml:"level" json:"level"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogEncoding is json or console
	LogEncoding string `yaml:"log_encoding" json:"log_encoding"`
	// EnableMetrics registers the prometheus collectors
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing exports spans to stdout
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
}

// Default returns a configuration with every optional field filled in.
func Default() *Config {
	return &Config{
		LoadMode:   LoadChunked,
		Format:     FormatCSV,
		Delimiter:  ",",
		HeaderMode: HeaderInclude,
		ChunkSize:  DefaultChunkSize,
		Reader:     ReaderFile,
		Output: OutputConfig{
			Format:    FormatCSV,
			Delimiter: ",",
			Level:     "default",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogEncoding: "console",
		},
	}
}

// Delim returns the source delimiter byte.
func (c *Config) Delim() byte {
	if c.Delimiter == "" {
		return ','
	}
	return c.Delimiter[0]
}

// OutputDelim returns the output delimiter byte, falling back to the
// source delimiter.
func (c *Config) OutputDelim() byte {
	if c.Output.Delimiter == "" {
		return c.Delim()
	}
	return c.Output.Delimiter[0]
}

// HasHeader reports whether the first CSV line carries captions.
func (c *Config) HasHeader() bool {
	return c.HeaderMode == HeaderInclude
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New(errors.ErrorTypeConfig, "source is required")
	}
	switch c.LoadMode {
	case LoadWholeFile, LoadChunked, LoadAuto:
	default:
		return invalid("load_mode", string(c.LoadMode))
	}
	switch c.Format {
	case FormatCSV, FormatJSON:
	default:
		return invalid("format", string(c.Format))
	}
	switch c.HeaderMode {
	case HeaderInclude, HeaderSkip, HeaderNone:
	default:
		return invalid("header_mode", string(c.HeaderMode))
	}
	switch c.Reader {
	case ReaderFile, ReaderMmap:
	default:
		return invalid("reader", string(c.Reader))
	}
	if len(c.Delimiter) != 1 {
		return invalid("delimiter", c.Delimiter)
	}
	if c.Delimiter[0] == '"' || c.Delimiter[0] == '\n' || c.Delimiter[0] == '\r' {
		return invalid("delimiter", c.Delimiter)
	}
	if c.ChunkSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "chunk_size must be positive").
			WithDetail("chunk_size", c.ChunkSize)
	}
	if c.Output.Format != "" {
		switch c.Output.Format {
		case FormatCSV, FormatJSON, FormatAvro, FormatArrow:
		default:
			return invalid("output.format", string(c.Output.Format))
		}
	}
	if len(c.Output.Delimiter) > 1 {
		return invalid("output.delimiter", c.Output.Delimiter)
	}
	return nil
}

func invalid(key, value string) error {
	return errors.Newf(errors.ErrorTypeConfig, "invalid %s %q", key, value).
		WithDetail("key", key).
		WithDetail("value", value)
}
