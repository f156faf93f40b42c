// Package export converts loaded tables into columnar formats: Arrow
// records and IPC files, and Avro object container files.
package export

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/table"
)

// ArrowSchema maps column types and captions to an Arrow schema. Every field
// is nullable since unset cells are exported as nulls.
func ArrowSchema(types []table.DataType, header []string) *arrow.Schema {
	names := FieldNames(header, len(types))
	fields := make([]arrow.Field, len(types))
	for i, t := range types {
		fields[i] = arrow.Field{Name: names[i], Type: arrowType(t), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(t table.DataType) arrow.DataType {
	switch t {
	case table.Int:
		return arrow.PrimitiveTypes.Int64
	case table.Double:
		return arrow.PrimitiveTypes.Float64
	case table.Date:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// ToArrowRecord copies tbl into a new Arrow record allocated from mem. A nil
// mem uses the Go allocator. The caller must Release the record.
func ToArrowRecord(mem memory.Allocator, tbl *table.Table) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema := ArrowSchema(tbl.Types(), tbl.Header())

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i := 0; i < tbl.Columns(); i++ {
		col, err := tbl.Column(i)
		if err != nil {
			return nil, err
		}
		if err := appendColumn(b.Field(i), col); err != nil {
			return nil, err
		}
	}
	return b.NewRecord(), nil
}

func appendColumn(b array.Builder, col table.Column) error {
	n := col.Len()
	b.Reserve(n)

	switch c := col.(type) {
	case *table.IntColumn:
		builder := b.(*array.Int64Builder)
		for _, cell := range c.Cells() {
			if cell.Set {
				builder.Append(cell.Value)
			} else {
				builder.AppendNull()
			}
		}
	case *table.DoubleColumn:
		builder := b.(*array.Float64Builder)
		for _, cell := range c.Cells() {
			if cell.Set {
				builder.Append(cell.Value)
			} else {
				builder.AppendNull()
			}
		}
	case *table.DateColumn:
		builder := b.(*array.TimestampBuilder)
		for _, cell := range c.Cells() {
			if cell.Set {
				builder.Append(arrow.Timestamp(cell.Value.UnixMicro()))
			} else {
				builder.AppendNull()
			}
		}
	case *table.StringColumn:
		builder := b.(*array.StringBuilder)
		for _, cell := range c.Cells() {
			if cell.Set {
				builder.Append(cell.Value)
			} else {
				builder.AppendNull()
			}
		}
	default:
		return errors.Newf(errors.ErrorTypeInternal, "unsupported column %T", col)
	}
	return nil
}

// ArrowWriter writes tables as record batches of one Arrow IPC file.
type ArrowWriter struct {
	fw     *ipc.FileWriter
	schema *arrow.Schema
	mem    memory.Allocator
}

// NewArrowWriter starts an IPC file on w with the schema derived from types
// and header. Close writes the footer; the file is unreadable without it.
func NewArrowWriter(w io.Writer, types []table.DataType, header []string) (*ArrowWriter, error) {
	schema := ArrowSchema(types, header)
	mem := memory.NewGoAllocator()
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create arrow writer")
	}
	return &ArrowWriter{fw: fw, schema: schema, mem: mem}, nil
}

// Write appends tbl as one record batch and returns the number of rows
// written. tbl must have the columns the writer was created with.
func (w *ArrowWriter) Write(tbl *table.Table) (int, error) {
	if !ArrowSchema(tbl.Types(), tbl.Header()).Equal(w.schema) {
		return 0, errors.New(errors.ErrorTypeValidation, "table columns differ from the arrow file schema").
			WithDetail("columns", tbl.Columns()).
			WithDetail("schema_fields", len(w.schema.Fields()))
	}
	if tbl.Rows() == 0 {
		return 0, nil
	}
	rec, err := ToArrowRecord(w.mem, tbl)
	if err != nil {
		return 0, err
	}
	defer rec.Release()

	if err := w.fw.Write(rec); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to write arrow record")
	}
	return tbl.Rows(), nil
}

// Close finishes the file. It does not close the underlying writer.
func (w *ArrowWriter) Close() error {
	if err := w.fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close arrow writer")
	}
	return nil
}
