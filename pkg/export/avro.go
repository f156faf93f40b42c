package export

import (
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/table"
)

const (
	avroRecordName = "Row"
	avroTimestamp  = "long.timestamp-millis"
)

// AvroSchema builds the record schema for the given columns. Every field is
// a union with null so unset cells round-trip.
func AvroSchema(types []table.DataType, header []string) (string, error) {
	names := FieldNames(header, len(types))
	fields := make([]map[string]interface{}, len(types))
	for i, t := range types {
		fields[i] = map[string]interface{}{
			"name":    names[i],
			"type":    []interface{}{"null", avroType(t)},
			"default": nil,
		}
	}
	schema := map[string]interface{}{
		"type":      "record",
		"name":      avroRecordName,
		"namespace": "tabula",
		"fields":    fields,
	}
	b, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode avro schema")
	}
	return string(b), nil
}

func avroType(t table.DataType) interface{} {
	switch t {
	case table.Int:
		return "long"
	case table.Double:
		return "double"
	case table.Date:
		return map[string]interface{}{"type": "long", "logicalType": "timestamp-millis"}
	default:
		return "string"
	}
}

func unionName(t table.DataType) string {
	switch t {
	case table.Int:
		return "long"
	case table.Double:
		return "double"
	case table.Date:
		return avroTimestamp
	default:
		return "string"
	}
}

// AvroCompression maps an output compression name onto an OCF block codec.
// Only deflate and snappy exist in the container format; gzip maps to
// deflate and anything else is written uncompressed.
func AvroCompression(name string) string {
	switch strings.ToLower(name) {
	case "snappy":
		return goavro.CompressionSnappyLabel
	case "gzip", "deflate":
		return goavro.CompressionDeflateLabel
	default:
		return goavro.CompressionNullLabel
	}
}

// AvroWriter appends table rows to an Avro object container file.
type AvroWriter struct {
	ocf   *goavro.OCFWriter
	names []string
}

// NewAvroWriter prepares an OCF writer on w. When w is a non-empty
// io.ReadSeeker holding an existing container, rows are appended using that
// file's schema and codec, and types, header and compression are ignored.
func NewAvroWriter(w io.Writer, types []table.DataType, header []string, compression string) (*AvroWriter, error) {
	schema, err := AvroSchema(types, header)
	if err != nil {
		return nil, err
	}
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create avro codec")
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: AvroCompression(compression),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create avro writer")
	}
	return &AvroWriter{ocf: ocf, names: FieldNames(header, len(types))}, nil
}

// Write appends every row of tbl as one block and returns the number of
// rows written.
func (w *AvroWriter) Write(tbl *table.Table) (int, error) {
	if tbl.Columns() != len(w.names) {
		return 0, errors.Newf(errors.ErrorTypeValidation,
			"table has %d columns, avro schema has %d", tbl.Columns(), len(w.names))
	}
	rows := make([]interface{}, tbl.Rows())
	for r := range rows {
		rows[r] = w.native(tbl, r)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := w.ocf.Append(rows); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeInternal, "failed to write avro rows")
	}
	return len(rows), nil
}

func (w *AvroWriter) native(tbl *table.Table, row int) map[string]interface{} {
	datum := make(map[string]interface{}, len(w.names))
	for c, name := range w.names {
		col, _ := tbl.Column(c)
		f := col.Field(row)
		if !f.Set {
			datum[name] = nil
			continue
		}
		var v interface{}
		switch f.Type {
		case table.Int:
			v = f.Int
		case table.Double:
			v = f.Double
		case table.Date:
			v = f.Date
		default:
			v = f.Str
		}
		datum[name] = goavro.Union(unionName(f.Type), v)
	}
	return datum
}
