package table

import (
	"slices"
	"strconv"
	"time"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Column is one typed column of a Table. The concrete type is one of
// *IntColumn, *DoubleColumn, *DateColumn or *StringColumn.
type Column interface {
	Type() DataType
	Len() int
	IsSet(i int) bool
	Unset(i int)
	// Field returns a tagged copy of cell i
	Field(i int) Field
	// String renders cell i; unset cells are empty
	String(i int) string
	// SetField stores f in cell i. A field of another type is rejected and
	// the cell is left untouched.
	SetField(i int, f Field) error
	// Parse converts raw into cell i. On failure the cell is left unset.
	Parse(i int, raw string) error

	insertZero(i int)
	remove(i int)
}

// cells is the storage shared by every column kind.
type cells[T any] struct {
	data []Cell[T]
}

// Len returns the number of cells
func (c *cells[T]) Len() int { return len(c.data) }

// IsSet reports whether cell i holds a value
func (c *cells[T]) IsSet(i int) bool { return c.data[i].Set }

// Get returns the value of cell i and whether it is set
func (c *cells[T]) Get(i int) (T, bool) {
	return c.data[i].Value, c.data[i].Set
}

// Set stores v in cell i
func (c *cells[T]) Set(i int, v T) {
	c.data[i] = Cell[T]{Value: v, Set: true}
}

// Unset clears cell i
func (c *cells[T]) Unset(i int) {
	c.data[i] = Cell[T]{}
}

// Append adds a set cell at the end
func (c *cells[T]) Append(v T) {
	c.data = append(c.data, Cell[T]{Value: v, Set: true})
}

// Cells returns the backing cells. The slice is owned by the column.
func (c *cells[T]) Cells() []Cell[T] { return c.data }

func (c *cells[T]) insertZero(i int) {
	c.data = slices.Insert(c.data, i, Cell[T]{})
}

func (c *cells[T]) remove(i int) {
	c.data = slices.Delete(c.data, i, i+1)
}

func mismatch(want DataType, got Field) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "cannot store %s field in %s column", got.Type, want).
		WithDetail("column_type", want.String()).
		WithDetail("field_type", got.Type.String())
}

// IntColumn stores int64 cells
type IntColumn struct {
	cells[int64]
}

// NewIntColumn returns a column holding values, all set.
func NewIntColumn(values ...int64) *IntColumn {
	c := &IntColumn{}
	c.data = make([]Cell[int64], len(values))
	for i, v := range values {
		c.data[i] = Cell[int64]{Value: v, Set: true}
	}
	return c
}

func (c *IntColumn) Type() DataType { return Int }

func (c *IntColumn) Field(i int) Field {
	return Field{Type: Int, Set: c.data[i].Set, Int: c.data[i].Value}
}

func (c *IntColumn) String(i int) string {
	if !c.data[i].Set {
		return ""
	}
	return strconv.FormatInt(c.data[i].Value, 10)
}

func (c *IntColumn) SetField(i int, f Field) error {
	if f.Type != Int {
		return mismatch(Int, f)
	}
	c.data[i] = Cell[int64]{Value: f.Int, Set: f.Set}
	return nil
}

func (c *IntColumn) Parse(i int, raw string) error {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.Unset(i)
		return err
	}
	c.Set(i, v)
	return nil
}

// DoubleColumn stores float64 cells
type DoubleColumn struct {
	cells[float64]
}

// NewDoubleColumn returns a column holding values, all set.
func NewDoubleColumn(values ...float64) *DoubleColumn {
	c := &DoubleColumn{}
	c.data = make([]Cell[float64], len(values))
	for i, v := range values {
		c.data[i] = Cell[float64]{Value: v, Set: true}
	}
	return c
}

func (c *DoubleColumn) Type() DataType { return Double }

func (c *DoubleColumn) Field(i int) Field {
	return Field{Type: Double, Set: c.data[i].Set, Double: c.data[i].Value}
}

func (c *DoubleColumn) String(i int) string {
	if !c.data[i].Set {
		return ""
	}
	return formatDouble(c.data[i].Value)
}

func (c *DoubleColumn) SetField(i int, f Field) error {
	if f.Type != Double {
		return mismatch(Double, f)
	}
	c.data[i] = Cell[float64]{Value: f.Double, Set: f.Set}
	return nil
}

func (c *DoubleColumn) Parse(i int, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.Unset(i)
		return err
	}
	c.Set(i, v)
	return nil
}

// DateColumn stores timestamps parsed with DateLayout
type DateColumn struct {
	cells[time.Time]
}

// NewDateColumn returns a column holding values, all set.
func NewDateColumn(values ...time.Time) *DateColumn {
	c := &DateColumn{}
	c.data = make([]Cell[time.Time], len(values))
	for i, v := range values {
		c.data[i] = Cell[time.Time]{Value: v, Set: true}
	}
	return c
}

func (c *DateColumn) Type() DataType { return Date }

func (c *DateColumn) Field(i int) Field {
	return Field{Type: Date, Set: c.data[i].Set, Date: c.data[i].Value}
}

func (c *DateColumn) String(i int) string {
	if !c.data[i].Set {
		return ""
	}
	return c.data[i].Value.Format(DateLayout)
}

func (c *DateColumn) SetField(i int, f Field) error {
	if f.Type != Date {
		return mismatch(Date, f)
	}
	c.data[i] = Cell[time.Time]{Value: f.Date, Set: f.Set}
	return nil
}

func (c *DateColumn) Parse(i int, raw string) error {
	v, err := time.Parse(DateLayout, raw)
	if err != nil {
		c.Unset(i)
		return err
	}
	c.Set(i, v)
	return nil
}

// StringColumn stores raw text
type StringColumn struct {
	cells[string]
}

// NewStringColumn returns a column holding values, all set.
func NewStringColumn(values ...string) *StringColumn {
	c := &StringColumn{}
	c.data = make([]Cell[string], len(values))
	for i, v := range values {
		c.data[i] = Cell[string]{Value: v, Set: true}
	}
	return c
}

func (c *StringColumn) Type() DataType { return String }

func (c *StringColumn) Field(i int) Field {
	return Field{Type: String, Set: c.data[i].Set, Str: c.data[i].Value}
}

func (c *StringColumn) String(i int) string {
	if !c.data[i].Set {
		return ""
	}
	return c.data[i].Value
}

func (c *StringColumn) SetField(i int, f Field) error {
	if f.Type != String {
		return mismatch(String, f)
	}
	c.data[i] = Cell[string]{Value: f.Str, Set: f.Set}
	return nil
}

// Parse never fails for strings
func (c *StringColumn) Parse(i int, raw string) error {
	c.Set(i, raw)
	return nil
}

// NewColumn returns an empty-valued column of type t with n unset cells.
func NewColumn(t DataType, n int) Column {
	switch t {
	case Int:
		return &IntColumn{cells[int64]{data: make([]Cell[int64], n)}}
	case Double:
		return &DoubleColumn{cells[float64]{data: make([]Cell[float64], n)}}
	case Date:
		return &DateColumn{cells[time.Time]{data: make([]Cell[time.Time], n)}}
	default:
		return &StringColumn{cells[string]{data: make([]Cell[string], n)}}
	}
}
