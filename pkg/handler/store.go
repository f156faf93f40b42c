package handler

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/export"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/table"
)

// StoreDataInFile writes the current chunk to path. The first chunk of a
// pass truncates the file; later chunks append. CSV writes the header
// before the first chunk. JSON needs a header and produces one array over
// the whole pass, closed once the last chunk is stored. Avro appends
// blocks to one object container file. Arrow adds one record batch per
// chunk to an IPC file that is held open until the last chunk is stored,
// the pass restarts or Close is called.
//
// Compressed output is chosen by cfg.Output.Compression or, when that is
// empty, by the path suffix. Each chunk becomes its own compressed stream.
func (h *Handler) StoreDataInFile(ctx context.Context, path string, format config.Format, delimiter byte) (err error) {
	log := logger.FromContext(ctx, h.logger)
	if h.table == nil {
		log.Warn("no data loaded, nothing stored", zap.String("path", path))
		return nil
	}

	ctx, span := observability.NewSpan(ctx, "handler.store_data")
	span.SetAttribute("path", path)
	span.SetAttribute("format", string(format))
	defer func() { span.Finish(err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	first := h.window.Chunks == 1
	if first {
		h.written[path] = 0
	}

	var n int
	switch format {
	case config.FormatCSV:
		n, err = h.writeStream(path, first, func(w *bufio.Writer) (int, error) {
			return h.writeCSV(w, first, delimiter)
		})
	case config.FormatJSON:
		if !h.table.HasHeader() {
			return errors.HeaderNotAvailable()
		}
		n, err = h.writeStream(path, first, func(w *bufio.Writer) (int, error) {
			return h.writeJSON(w, first, path)
		})
	case config.FormatAvro:
		n, err = h.writeAvro(path, first)
	case config.FormatArrow:
		n, err = h.writeArrow(path, first)
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported output format %q", format)
	}
	if err != nil {
		return err
	}

	h.written[path] += int64(n)
	h.metrics.RecordsStored(string(format), n)
	span.SetAttribute("rows", n)
	log.Info("chunk stored",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("chunk", h.window.Chunks),
		zap.Int("rows", n),
		zap.Int64("total", h.written[path]))
	return nil
}

func (h *Handler) openOutput(path string, first bool, flags int) (*os.File, error) {
	if first {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags|os.O_CREATE, 0o644) //nolint:gosec // G304: caller chooses the destination
	if err != nil {
		return nil, errors.UnableToOpenFile(path, err)
	}
	return f, nil
}

func (h *Handler) outputCompression() (compression.Algorithm, compression.Level, error) {
	level, err := compression.ParseLevel(h.cfg.Output.Level)
	if err != nil {
		return compression.None, level, err
	}
	if h.cfg.Output.Compression == "" {
		return compression.None, level, nil
	}
	alg, err := compression.ParseAlgorithm(h.cfg.Output.Compression)
	return alg, level, err
}

// writeStream opens path, wraps it in the configured compressor and hands a
// buffered writer to write.
func (h *Handler) writeStream(path string, first bool, write func(*bufio.Writer) (int, error)) (n int, err error) {
	alg, level, err := h.outputCompression()
	if err != nil {
		return 0, err
	}
	if h.cfg.Output.Compression == "" {
		alg = compression.FromPath(path)
	}

	f, err := h.openOutput(path, first, os.O_WRONLY|os.O_APPEND)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close output").WithDetail("path", path)
		}
	}()

	cw, err := compression.NewWriter(f, alg, level)
	if err != nil {
		return 0, err
	}
	bw := bufio.NewWriter(cw)
	if n, err = write(bw); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to write output").WithDetail("path", path)
	}
	if err := bw.Flush(); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to write output").WithDetail("path", path)
	}
	if err := cw.Close(); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed stream").WithDetail("path", path)
	}
	return n, nil
}

func (h *Handler) writeCSV(w io.StringWriter, first bool, delimiter byte) (int, error) {
	tbl := h.table
	le := string(h.lineEnding)
	sep := string(delimiter)

	if first && tbl.HasHeader() {
		if _, err := w.WriteString(csvLine(tbl.Header(), delimiter, sep) + le); err != nil {
			return 0, err
		}
	}
	for i := 0; i < tbl.Rows(); i++ {
		row, _ := tbl.Row(i)
		if _, err := w.WriteString(csvLine(row, delimiter, sep) + le); err != nil {
			return i, err
		}
	}
	return tbl.Rows(), nil
}

func csvLine(values []string, delimiter byte, sep string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = csvValue(v, delimiter)
	}
	return strings.Join(out, sep)
}

// csvValue quotes v when it holds the delimiter, a quote or a line break
// and is not quoted already.
func csvValue(v string, delimiter byte) string {
	if table.IsQuoted(v) {
		return v
	}
	if strings.IndexByte(v, delimiter) >= 0 || strings.ContainsAny(v, "\"\r\n") {
		return table.Quote(v)
	}
	return v
}

func (h *Handler) writeJSON(w io.StringWriter, first bool, path string) (int, error) {
	tbl := h.table
	le := string(h.lineEnding)

	if first {
		if _, err := w.WriteString("[" + le); err != nil {
			return 0, err
		}
	}

	header := tbl.Header()
	keys := make([]string, len(header))
	for i, caption := range header {
		keys[i] = jsonString(caption)
	}

	written := h.written[path]
	var obj strings.Builder
	for i := 0; i < tbl.Rows(); i++ {
		obj.Reset()
		if written > 0 {
			obj.WriteString("," + le)
		}
		obj.WriteByte('{')
		for c := 0; c < tbl.Columns(); c++ {
			if c > 0 {
				obj.WriteByte(',')
			}
			col, _ := tbl.Column(c)
			obj.WriteString(keys[c])
			obj.WriteString(" : ")
			obj.WriteString(jsonValue(col.Field(i)))
		}
		obj.WriteByte('}')
		if _, err := w.WriteString(obj.String()); err != nil {
			return i, err
		}
		written++
	}

	if h.window.EOF {
		if _, err := w.WriteString(le + "]" + le); err != nil {
			return tbl.Rows(), err
		}
	}
	return tbl.Rows(), nil
}

// jsonValue renders a cell. Numbers are written bare; strings and dates
// are quoted unless already quoted; unset cells are empty strings.
func jsonValue(f table.Field) string {
	if !f.Set {
		return `""`
	}
	switch f.Type {
	case table.Int, table.Double:
		return f.String()
	default:
		return jsonString(f.String())
	}
}

func jsonString(s string) string {
	if table.IsQuoted(s) {
		return s
	}
	b, err := json.Marshal(s)
	if err != nil {
		return table.Quote(s)
	}
	return string(b)
}

func (h *Handler) writeAvro(path string, first bool) (n int, err error) {
	f, err := h.openOutput(path, first, os.O_RDWR)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close output").WithDetail("path", path)
		}
	}()

	w, err := export.NewAvroWriter(f, h.table.Types(), h.table.Header(), h.cfg.Output.Compression)
	if err != nil {
		return 0, err
	}
	return w.Write(h.table)
}

// arrowOutput is an Arrow IPC file being written across the chunks of a
// pass.
type arrowOutput struct {
	f *os.File
	w *export.ArrowWriter
}

func (o *arrowOutput) close() error {
	err := o.w.Close()
	if cerr := o.f.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close output").WithDetail("path", o.f.Name())
	}
	return err
}

func (h *Handler) writeArrow(path string, first bool) (int, error) {
	out := h.arrows[path]
	if out != nil && first {
		delete(h.arrows, path)
		if err := out.close(); err != nil {
			return 0, err
		}
		out = nil
	}
	if out == nil {
		f, err := h.openOutput(path, true, os.O_WRONLY)
		if err != nil {
			return 0, err
		}
		w, err := export.NewArrowWriter(f, h.table.Types(), h.table.Header())
		if err != nil {
			_ = f.Close()
			return 0, err
		}
		out = &arrowOutput{f: f, w: w}
		h.arrows[path] = out
	}

	n, err := out.w.Write(h.table)
	if err != nil {
		return 0, err
	}
	if h.window.EOF {
		delete(h.arrows, path)
		if err := out.close(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (h *Handler) closeArrows() error {
	var firstErr error
	for path, out := range h.arrows {
		delete(h.arrows, path)
		if err := out.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close finishes any output file still open for the current pass. Only
// Arrow output is held open between calls.
func (h *Handler) Close() error {
	return h.closeArrows()
}
