// Package handler runs one ingestion session over a CSV or JSON source.
//
// A Handler reads the source chunk by chunk, reassembles records that
// straddle chunk boundaries and materializes each chunk as a typed
// table.Table. Rows are addressed by absolute index: the current chunk
// covers the window [Begin, End) and the window moves forward with every
// LoadEntries call.
//
// # Basic Usage
//
//	h, err := handler.New(cfg)
//	if err != nil {
//	    return err
//	}
//	for {
//	    ok, err := h.LoadEntries(ctx, handler.IgnoreErrors)
//	    if err != nil || !ok {
//	        return err
//	    }
//	    // query and edit the chunk, then
//	    if err := h.StoreDataInFile(ctx, "out.json", config.FormatJSON, ','); err != nil {
//	        return err
//	    }
//	}
//
// Whole-file mode is a single chunk, so the same loop drives both modes.
// A Handler is not safe for concurrent use.
package handler

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/chunk"
	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/record"
	"github.com/ajitpratap0/tabula/pkg/schema"
	"github.com/ajitpratap0/tabula/pkg/table"
)

// ErrorMode decides what happens to records that fail to split or convert.
type ErrorMode = table.ErrorMode

const (
	// StopOnError fails the call at the first bad record
	StopOnError = table.StopOnError
	// IgnoreErrors drops records with a wrong field count and leaves
	// unconvertible cells unset
	IgnoreErrors = table.IgnoreErrors
)

// End as a row or column position appends after the last loaded row or
// the last column.
const End = -1

// sniffSize is the initial prefix read to find the header and first record.
const sniffSize = 64 * 1024

// Window is the absolute row range held by the current chunk.
type Window struct {
	Begin  int  `json:"begin"`
	End    int  `json:"end"`
	Chunks int  `json:"chunks"`
	EOF    bool `json:"eof"`
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the base logger. The handler adds its own fields.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithMetrics replaces the default per-source collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(h *Handler) { h.metrics = c }
}

// WithReader replaces the chunk reader selected by the config.
func WithReader(r chunk.Reader) Option {
	return func(h *Handler) { h.reader = r }
}

// Handler is one ingestion session.
type Handler struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Collector
	reader    chunk.Reader
	inference *schema.TypeInferenceEngine
	sessionID string

	size       int64
	loadMode   config.LoadMode
	lineEnding chunk.LineEnding
	delim      byte

	// file structure, fixed once detected
	detected bool
	types    []table.DataType
	header   []string

	csv       *record.CSVExtractor
	extractor record.Extractor

	headerPending bool
	headBuf       []byte
	offset        int64
	window        Window
	table         *table.Table

	// rows written per output path during the current pass
	written map[string]int64
	// Arrow files stay open until the last chunk of a pass is stored
	arrows map[string]*arrowOutput
}

// New opens a session over cfg.Source. Chunked loading is rejected when
// the chunk size exceeds the file size.
func New(cfg *config.Config, opts ...Option) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	size, err := chunk.FileSize(cfg.Source)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		cfg:       cfg,
		sessionID: uuid.NewString(),
		size:      size,
		delim:     cfg.Delim(),
		written:   make(map[string]int64),
		arrows:    make(map[string]*arrowOutput),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get()
	}
	h.logger = h.logger.With(
		zap.String("component", "handler"),
		zap.String("session_id", h.sessionID),
		zap.String("source", cfg.Source))
	if h.metrics == nil {
		h.metrics = metrics.NewCollector(cfg.Source)
	}
	if h.reader == nil {
		h.reader = chunk.NewReader(cfg.Reader, cfg.Source)
	}
	h.inference = schema.NewTypeInferenceEngine(h.logger)

	h.loadMode = cfg.LoadMode
	if h.loadMode == config.LoadAuto {
		available, err := chunk.AvailableMemory()
		if err != nil {
			h.logger.Warn("memory probe failed, loading in chunks", zap.Error(err))
			h.loadMode = config.LoadChunked
		} else {
			h.loadMode = chunk.ResolveLoadMode(cfg.LoadMode, size, available)
		}
	}
	if h.loadMode == config.LoadChunked && cfg.ChunkSize > size {
		return nil, errors.ChunkSizeExceedsFile(cfg.ChunkSize, size)
	}

	if h.lineEnding, err = chunk.DetectFileLineEnding(cfg.Source); err != nil {
		return nil, err
	}

	if cfg.Format == config.FormatJSON {
		h.extractor = record.NewJSONExtractor()
	} else {
		h.csv = record.NewCSVExtractor(0)
		h.extractor = h.csv
	}
	h.headerPending = h.csv != nil && cfg.HeaderMode != config.HeaderNone

	h.logger.Debug("session opened",
		zap.Int64("size", size),
		zap.String("load_mode", string(h.loadMode)),
		zap.Stringer("line_ending", h.lineEnding))
	return h, nil
}

// SessionID identifies this session in logs.
func (h *Handler) SessionID() string { return h.sessionID }

// LoadMode returns the resolved load mode, never LoadAuto.
func (h *Handler) LoadMode() config.LoadMode { return h.loadMode }

// LineEnding returns the terminator detected in the source.
func (h *Handler) LineEnding() chunk.LineEnding { return h.lineEnding }

// Window returns the absolute row range of the current chunk.
func (h *Handler) Window() Window { return h.window }

// Table returns the current chunk, or nil before the first load.
func (h *Handler) Table() *table.Table { return h.table }

// Rows returns the number of rows in the current chunk.
func (h *Handler) Rows() int {
	if h.table == nil {
		return 0
	}
	return h.table.Rows()
}

// Columns returns the number of columns in the current chunk, or of the
// file structure when nothing is loaded.
func (h *Handler) Columns() int {
	if h.table == nil {
		return len(h.types)
	}
	return h.table.Columns()
}

// Header returns the captions of the current chunk, or nil without a header.
func (h *Handler) Header() []string {
	if h.table == nil {
		return slices.Clone(h.header)
	}
	return h.table.Header()
}

// Types returns the column types of the current chunk.
func (h *Handler) Types() []table.DataType {
	if h.table == nil {
		return slices.Clone(h.types)
	}
	return h.table.Types()
}

// ProvideTypesForColumns fixes the column types instead of inferring them
// from the first record. It applies from the next chunk on.
func (h *Handler) ProvideTypesForColumns(types []table.DataType) {
	h.types = slices.Clone(types)
	if h.csv != nil {
		h.csv.SetColumns(len(types))
	}
}

// ValidateTypesForColumns compares types with the ones inferred from the
// first data record of the source.
func (h *Handler) ValidateTypesForColumns(ctx context.Context, types []table.DataType) (schema.ValidationResult, error) {
	_, sample, err := h.sniff(ctx)
	if err != nil {
		return schema.ValidationResult{}, err
	}
	res := schema.Validate(types, h.inference.InferTypes(sample))

	log := logger.FromContext(ctx, h.logger)
	if res.Valid {
		log.Info("column types validated", zap.Int("columns", len(types)))
	} else {
		log.Warn("column types do not match source",
			zap.Int("provided", res.Provided),
			zap.Int("actual", res.Actual),
			zap.Int("mismatches", len(res.Mismatches)))
	}
	return res, nil
}

// LoadEntries reads the next chunk and replaces the current table with it.
// It returns false once the previous call reached the end of the source;
// that call also resets the session so the next one starts a fresh pass.
//
// Under StopOnError the first bad record fails the call and leaves an
// empty chunk at the current window start.
func (h *Handler) LoadEntries(ctx context.Context, mode ErrorMode) (bool, error) {
	if h.window.EOF {
		h.reset()
		return false, nil
	}

	ctx, span := observability.NewSpan(ctx, "handler.load_entries")
	span.SetAttribute("source", h.cfg.Source)
	span.SetAttribute("error_mode", mode.String())

	err := h.load(ctx, mode)

	span.SetAttribute("chunk", h.window.Chunks)
	span.SetAttribute("rows", h.Rows())
	span.Finish(err)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (h *Handler) load(ctx context.Context, mode ErrorMode) error {
	log := logger.FromContext(ctx, h.logger)
	timer := metrics.NewTimer("load_entries")

	if !h.detected {
		if err := h.detect(ctx); err != nil {
			return err
		}
	}

	size := h.cfg.ChunkSize
	if h.loadMode == config.LoadWholeFile {
		size = h.size
	}
	data, err := h.reader.ReadChunk(ctx, h.offset, size)
	if err != nil {
		return err
	}
	n := len(data)
	if h.offset == 0 {
		data = record.TrimBOM(data)
	}
	h.offset += int64(n)
	eof := n == 0 || h.offset >= h.size

	h.window.Begin = h.window.End
	h.window.Chunks++
	h.window.EOF = eof

	tbl, err := table.New(h.types, h.header)
	if err != nil {
		h.window.End = h.window.Begin
		return err
	}
	tbl.SetBase(h.window.Begin)
	h.table = tbl

	for _, rec := range h.records(data, eof) {
		if err := h.ingest(tbl, rec, mode, log); err != nil {
			tbl.Truncate()
			h.window.End = h.window.Begin
			log.Error("chunk load failed",
				zap.Int("chunk", h.window.Chunks),
				zap.Error(err))
			return err
		}
	}
	h.window.End = h.window.Begin + tbl.Rows()

	d := timer.Stop()
	h.metrics.ChunkLoaded(n, tbl.Rows(), d)
	fields := []zap.Field{
		zap.Int("chunk", h.window.Chunks),
		zap.Int("bytes", n),
		zap.Int("begin", h.window.Begin),
		zap.Int("end", h.window.End),
		zap.Int("pending", h.extractor.Pending()),
		zap.Bool("eof", eof),
		zap.Duration("duration", d),
	}
	if sr, ok := h.reader.(statsReader); ok {
		bytesRead, pages := sr.Stats()
		fields = append(fields, zap.Int64("mapped_bytes", bytesRead), zap.Int64("mapped_pages", pages))
	}
	log.Debug("chunk loaded", fields...)
	return nil
}

// statsReader is a chunk reader that reports mapping statistics.
type statsReader interface {
	Stats() (bytesRead, pagesMapped int64)
}

// records strips a pending header line and extracts complete records.
func (h *Handler) records(data []byte, eof bool) []string {
	if h.headerPending {
		buf := append(h.headBuf, data...)
		_, rest, ok := record.CutLine(buf)
		switch {
		case ok:
			data = rest
		case eof:
			// the header is the only line
			data = nil
		default:
			h.headBuf = buf
			return nil
		}
		h.headBuf = nil
		h.headerPending = false
	}
	return h.extractor.Extract(data, eof)
}

func (h *Handler) ingest(tbl *table.Table, rec string, mode ErrorMode, log *zap.Logger) error {
	fields, err := h.fields(rec, tbl.Base()+tbl.Rows())
	var tolerated []error
	if err == nil {
		tolerated, err = tbl.AppendRow(fields, mode)
	}
	if err != nil {
		if mode == IgnoreErrors && errors.IsType(err, errors.ErrorTypeSplit) {
			h.metrics.RecordRejected()
			log.Warn("record rejected", zap.Error(err))
			return nil
		}
		return err
	}
	h.conversionsTolerated(tolerated, log)
	return nil
}

func (h *Handler) conversionsTolerated(tolerated []error, log *zap.Logger) {
	if len(tolerated) == 0 {
		return
	}
	h.metrics.ConversionFailed(len(tolerated))
	for _, err := range tolerated {
		log.Debug("field left unset", zap.Error(err))
	}
}

// fields splits one record. JSON values are placed by caption when the
// source has a header and positionally otherwise.
func (h *Handler) fields(rec string, row int) ([]string, error) {
	if h.csv != nil {
		return record.Split(rec, h.delim), nil
	}
	props := record.ParseObject(rec)
	if h.header == nil {
		return record.Values(props), nil
	}
	if len(props) != len(h.header) {
		return nil, errors.UnableToSplitRecord(row, len(props), len(h.header))
	}
	fields := make([]string, len(h.header))
	filled := make([]bool, len(h.header))
	for _, p := range props {
		i := slices.Index(h.header, p.Name)
		if i < 0 || filled[i] {
			return nil, errors.UnableToSplitRecord(row, len(props), len(h.header)).
				WithDetail("property", p.Name)
		}
		fields[i] = p.Value
		filled[i] = true
	}
	return fields, nil
}

// detect reads the header and infers the column types unless provided.
func (h *Handler) detect(ctx context.Context) error {
	header, sample, err := h.sniff(ctx)
	if err != nil {
		return err
	}
	if h.cfg.HeaderMode == config.HeaderInclude {
		h.header = header
	}
	if h.types == nil {
		if sample != nil {
			h.types = h.inference.InferTypes(sample)
		} else {
			h.types = make([]table.DataType, len(header))
			for i := range h.types {
				h.types[i] = table.String
			}
		}
	}
	if h.csv != nil {
		h.csv.SetColumns(len(h.types))
	}
	h.detected = true
	return nil
}

// sniff returns the header captions and the fields of the first data
// record, reading a growing prefix of the source until both are found.
func (h *Handler) sniff(ctx context.Context) ([]string, []string, error) {
	for probe := int64(sniffSize); ; probe *= 2 {
		if probe > h.size {
			probe = h.size
		}
		data, err := h.reader.ReadChunk(ctx, 0, probe)
		if err != nil {
			return nil, nil, err
		}
		complete := probe >= h.size
		header, sample, found := h.sample(record.TrimBOM(data), complete)
		if found || complete {
			return header, sample, nil
		}
	}
}

func (h *Handler) sample(data []byte, complete bool) (header, sample []string, found bool) {
	if h.csv == nil {
		bodies := record.NewJSONExtractor().Extract(data, complete)
		if len(bodies) == 0 {
			return nil, nil, false
		}
		props := record.ParseObject(bodies[0])
		return record.Names(props), record.Values(props), true
	}

	want := 1
	if h.cfg.HeaderMode != config.HeaderNone {
		want = 2
	}
	lines := record.FirstLines(data, want, complete)
	if want == 2 && len(lines) > 0 {
		header = record.Split(lines[0], h.delim)
	}
	if len(lines) < want {
		return header, nil, false
	}
	return header, record.Split(lines[want-1], h.delim), true
}

// reset starts a fresh pass. Detected types and header are kept.
func (h *Handler) reset() {
	h.logger.Debug("pass complete", zap.Int("rows", h.window.End), zap.Int("chunks", h.window.Chunks))
	h.window = Window{}
	h.offset = 0
	h.extractor.Reset()
	h.headerPending = h.csv != nil && h.cfg.HeaderMode != config.HeaderNone
	h.headBuf = nil
	h.table = nil
	h.written = make(map[string]int64)
	if err := h.closeArrows(); err != nil {
		h.logger.Warn("failed to finish arrow output", zap.Error(err))
	}
}
