package table

import (
	"slices"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// ErrorMode decides what happens to records that fail to split or convert.
type ErrorMode int

const (
	// StopOnError fails the operation at the first bad record
	StopOnError ErrorMode = iota
	// IgnoreErrors drops records with the wrong field count and leaves
	// unconvertible cells unset
	IgnoreErrors
)

func (m ErrorMode) String() string {
	if m == IgnoreErrors {
		return "ignore"
	}
	return "stop"
}

// Table is one chunk of rows stored column by column.
type Table struct {
	columns []Column
	header  []string
	rows    int
	base    int
}

// New returns an empty table with one column per type. header may be nil;
// otherwise it must have one caption per type.
func New(types []DataType, header []string) (*Table, error) {
	if header != nil && len(header) != len(types) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"header has %d captions for %d columns", len(header), len(types))
	}
	t := &Table{columns: make([]Column, len(types))}
	for i, typ := range types {
		t.columns[i] = NewColumn(typ, 0)
	}
	if header != nil {
		t.header = slices.Clone(header)
	}
	return t, nil
}

// Rows returns the number of rows
func (t *Table) Rows() int { return t.rows }

// Columns returns the number of columns
func (t *Table) Columns() int { return len(t.columns) }

// Base returns the absolute index of row 0
func (t *Table) Base() int { return t.base }

// SetBase sets the absolute index of row 0, used in error reports.
func (t *Table) SetBase(base int) { t.base = base }

// HasHeader reports whether the table carries captions
func (t *Table) HasHeader() bool { return t.header != nil }

// Header returns a copy of the captions, or nil without a header.
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// Types returns the column types in order.
func (t *Table) Types() []DataType {
	types := make([]DataType, len(t.columns))
	for i, c := range t.columns {
		types[i] = c.Type()
	}
	return types
}

// Column returns column i.
func (t *Table) Column(i int) (Column, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, errors.OutOfRange("column", i)
	}
	return t.columns[i], nil
}

// ColumnID resolves a caption to its column index.
func (t *Table) ColumnID(caption string) (int, error) {
	if t.header == nil {
		return 0, errors.HeaderNotAvailable()
	}
	for i, h := range t.header {
		if h == caption {
			return i, nil
		}
	}
	return 0, errors.InvalidColumnCaption(caption)
}

func (t *Table) checkRow(row int) error {
	if row < 0 || row >= t.rows {
		return errors.OutOfRange("row", t.base+row)
	}
	return nil
}

// Field returns a copy of the cell at (col, row).
func (t *Table) Field(col, row int) (Field, error) {
	c, err := t.Column(col)
	if err != nil {
		return Field{}, err
	}
	if err := t.checkRow(row); err != nil {
		return Field{}, err
	}
	return c.Field(row), nil
}

// SetField stores f at (col, row). f must match the column type.
func (t *Table) SetField(col, row int, f Field) error {
	c, err := t.Column(col)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	return c.SetField(row, f)
}

// Row renders row as strings in column order.
func (t *Table) Row(row int) ([]string, error) {
	if err := t.checkRow(row); err != nil {
		return nil, err
	}
	return t.row(row), nil
}

func (t *Table) row(row int) []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.String(row)
	}
	return out
}

// AppendRow converts fields into a new last row. See InsertRow.
func (t *Table) AppendRow(fields []string, mode ErrorMode) ([]error, error) {
	return t.InsertRow(t.rows, fields, mode)
}

// InsertRow converts fields into a new row at pos, shifting later rows down.
//
// A field count that differs from the column count is reported as a split
// error and nothing is inserted. A field that does not convert fails the
// whole insert under StopOnError; under IgnoreErrors the cell stays unset
// and the conversion error is returned in the first result.
func (t *Table) InsertRow(pos int, fields []string, mode ErrorMode) ([]error, error) {
	if pos < 0 || pos > t.rows {
		return nil, errors.OutOfRange("row", t.base+pos)
	}
	if len(fields) != len(t.columns) {
		return nil, errors.UnableToSplitRecord(t.base+pos, len(fields), len(t.columns))
	}

	for _, c := range t.columns {
		c.insertZero(pos)
	}
	t.rows++

	var tolerated []error
	for i, c := range t.columns {
		if err := c.Parse(pos, fields[i]); err != nil {
			convErr := errors.UnableToConvertFieldType(c.Type().String(), fields[i], t.base+pos).
				WithDetail("column", i)
			convErr.Cause = err
			if mode == StopOnError {
				t.removeRow(pos)
				return tolerated, convErr
			}
			tolerated = append(tolerated, convErr)
		}
	}
	return tolerated, nil
}

// RemoveRow deletes row, shifting later rows up.
func (t *Table) RemoveRow(row int) error {
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.removeRow(row)
	return nil
}

func (t *Table) removeRow(row int) {
	for _, c := range t.columns {
		c.remove(row)
	}
	t.rows--
}

// Truncate drops every row while keeping columns and header.
func (t *Table) Truncate() {
	for t.rows > 0 {
		t.removeRow(t.rows - 1)
	}
}

// InsertColumn places col at pos. A caption requires a header; with a
// header and no caption the new column gets an empty caption.
func (t *Table) InsertColumn(pos int, col Column, caption string) error {
	if caption != "" && t.header == nil {
		return errors.HeaderNotAvailable()
	}
	if pos < 0 || pos > len(t.columns) {
		return errors.OutOfRange("column", pos)
	}
	if col.Len() != t.rows {
		return errors.Newf(errors.ErrorTypeOutOfRange,
			"column has %d cells, table has %d rows", col.Len(), t.rows).
			WithDetail("cells", col.Len()).
			WithDetail("rows", t.rows)
	}

	t.columns = slices.Insert(t.columns, pos, col)
	if t.header != nil {
		t.header = slices.Insert(t.header, pos, caption)
	}
	return nil
}

// InsertEmptyColumn inserts a column of unset cells.
func (t *Table) InsertEmptyColumn(pos int, typ DataType, caption string) error {
	return t.InsertColumn(pos, NewColumn(typ, t.rows), caption)
}

// RemoveColumn deletes column col and its caption.
func (t *Table) RemoveColumn(col int) error {
	if col < 0 || col >= len(t.columns) {
		return errors.OutOfRange("column", col)
	}
	t.columns = slices.Delete(t.columns, col, col+1)
	if t.header != nil {
		t.header = slices.Delete(t.header, col, col+1)
	}
	return nil
}

// QuoteStringFields wraps every set String cell that is not already
// quoted in double quotes.
func (t *Table) QuoteStringFields() {
	for _, c := range t.columns {
		sc, ok := c.(*StringColumn)
		if !ok {
			continue
		}
		for i, cell := range sc.data {
			if cell.Set && !IsQuoted(cell.Value) {
				sc.data[i].Value = Quote(cell.Value)
			}
		}
	}
}
