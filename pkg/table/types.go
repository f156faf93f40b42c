package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// DateLayout is the textual form of Date cells.
const DateLayout = "2006-01-02 15:04:05"

// DataType is the declared type of a column.
type DataType int

const (
	// Int is a 64-bit signed integer
	Int DataType = iota
	// Double is a 64-bit float
	Double
	// Date is a timestamp with second precision, written as DateLayout
	Date
	// String is raw text, kept exactly as read including any quotes
	String
)

func (t DataType) String() string {
	switch t {
	case Int:
		return "int"
	case Double:
		return "double"
	case Date:
		return "date"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// ParseDataType maps a type name back to its DataType.
func ParseDataType(name string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer":
		return Int, nil
	case "double", "float":
		return Double, nil
	case "date":
		return Date, nil
	case "string", "str":
		return String, nil
	}
	return 0, errors.Newf(errors.ErrorTypeValidation, "unknown column type %q", name)
}

// ParseDataTypes parses a list of type names, for example from a CLI flag.
func ParseDataTypes(names []string) ([]DataType, error) {
	types := make([]DataType, len(names))
	for i, n := range names {
		t, err := ParseDataType(n)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// Cell is one stored value and whether it holds a converted value.
type Cell[T any] struct {
	Value T
	Set   bool
}

// Field is a type-tagged copy of one cell. Only the member matching Type
// is meaningful.
type Field struct {
	Type   DataType
	Set    bool
	Int    int64
	Double float64
	Date   time.Time
	Str    string
}

// IntField returns a set Int field.
func IntField(v int64) Field { return Field{Type: Int, Set: true, Int: v} }

// DoubleField returns a set Double field.
func DoubleField(v float64) Field { return Field{Type: Double, Set: true, Double: v} }

// DateField returns a set Date field.
func DateField(v time.Time) Field { return Field{Type: Date, Set: true, Date: v} }

// StringField returns a set String field.
func StringField(v string) Field { return Field{Type: String, Set: true, Str: v} }

// String renders the field the way it is serialized. Unset fields are empty.
func (f Field) String() string {
	if !f.Set {
		return ""
	}
	switch f.Type {
	case Int:
		return strconv.FormatInt(f.Int, 10)
	case Double:
		return formatDouble(f.Double)
	case Date:
		return f.Date.Format(DateLayout)
	default:
		return f.Str
	}
}

func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsQuoted reports whether s is wrapped in double quotes.
func IsQuoted(s string) bool {
	return len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"'
}

// Quote wraps s in double quotes, doubling embedded quotes.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
