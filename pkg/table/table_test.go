package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

func peopleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]DataType{String, Int}, []string{"name", "age"})
	require.NoError(t, err)
	for _, rec := range [][]string{{"Alice", "30"}, {"Bob", "45"}} {
		tolerated, err := tbl.AppendRow(rec, StopOnError)
		require.NoError(t, err)
		require.Empty(t, tolerated)
	}
	return tbl
}

func TestNewRejectsHeaderLengthMismatch(t *testing.T) {
	_, err := New([]DataType{Int}, []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFieldAndRow(t *testing.T) {
	tbl := peopleTable(t)

	f, err := tbl.Field(1, 1)
	require.NoError(t, err)
	assert.Equal(t, IntField(45), f)

	row, err := tbl.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "30"}, row)

	_, err = tbl.Row(2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
	_, err = tbl.Field(5, 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestColumnID(t *testing.T) {
	tbl := peopleTable(t)

	id, err := tbl.ColumnID("age")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = tbl.ColumnID("email")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidCaption))

	headerless, err := New([]DataType{Int}, nil)
	require.NoError(t, err)
	_, err = headerless.ColumnID("age")
	assert.True(t, errors.IsType(err, errors.ErrorTypeHeaderNotAvailable))
}

func TestInsertRowConversion(t *testing.T) {
	tests := []struct {
		name      string
		mode      ErrorMode
		fields    []string
		wantErr   errors.ErrorType
		wantRows  int
		tolerated int
	}{
		{"valid", StopOnError, []string{"Carol", "51"}, "", 3, 0},
		{"bad int stops", StopOnError, []string{"Carol", "x"}, errors.ErrorTypeConversion, 2, 0},
		{"bad int ignored", IgnoreErrors, []string{"Carol", "x"}, "", 3, 1},
		{"short record", StopOnError, []string{"Carol"}, errors.ErrorTypeSplit, 2, 0},
		{"short record ignored", IgnoreErrors, []string{"Carol"}, errors.ErrorTypeSplit, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := peopleTable(t)
			tolerated, err := tbl.InsertRow(1, tt.fields, tt.mode)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, tolerated, tt.tolerated)
			assert.Equal(t, tt.wantRows, tbl.Rows())
			for i := 0; i < tbl.Columns(); i++ {
				c, _ := tbl.Column(i)
				assert.Equal(t, tbl.Rows(), c.Len())
			}
		})
	}
}

func TestInsertRowIgnoredCellIsUnset(t *testing.T) {
	tbl := peopleTable(t)
	_, err := tbl.InsertRow(0, []string{"Carol", "old"}, IgnoreErrors)
	require.NoError(t, err)

	f, err := tbl.Field(1, 0)
	require.NoError(t, err)
	assert.False(t, f.Set)
	row, _ := tbl.Row(0)
	assert.Equal(t, []string{"Carol", ""}, row)
	row, _ = tbl.Row(1)
	assert.Equal(t, []string{"Alice", "30"}, row)
}

func TestConversionErrorReportsAbsoluteRow(t *testing.T) {
	tbl := peopleTable(t)
	tbl.SetBase(100)

	_, err := tbl.AppendRow([]string{"Dan", "?"}, StopOnError)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	row, ok := e.Detail("row")
	require.True(t, ok)
	assert.Equal(t, 102, row)
}

func TestRemoveRow(t *testing.T) {
	tbl := peopleTable(t)
	require.NoError(t, tbl.RemoveRow(0))
	assert.Equal(t, 1, tbl.Rows())

	row, _ := tbl.Row(0)
	assert.Equal(t, []string{"Bob", "45"}, row)
	assert.Error(t, tbl.RemoveRow(1))
}

func TestInsertColumn(t *testing.T) {
	tbl := peopleTable(t)
	_, err := tbl.ReplaceAll(0, mustCompile(t, "^A"), "Z")
	require.NoError(t, err)

	require.NoError(t, tbl.InsertColumn(0, NewIntColumn(0, 1), "id"))
	assert.Equal(t, []string{"id", "name", "age"}, tbl.Header())
	assert.Equal(t, []DataType{Int, String, Int}, tbl.Types())

	row, _ := tbl.Row(0)
	assert.Equal(t, []string{"0", "Zlice", "30"}, row)

	err = tbl.InsertColumn(0, NewIntColumn(1), "short")
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
	err = tbl.InsertColumn(9, NewIntColumn(1, 2), "far")
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestInsertColumnCaptionWithoutHeader(t *testing.T) {
	tbl, err := New([]DataType{Int}, nil)
	require.NoError(t, err)

	err = tbl.InsertEmptyColumn(0, String, "note")
	assert.True(t, errors.IsType(err, errors.ErrorTypeHeaderNotAvailable))
	require.NoError(t, tbl.InsertEmptyColumn(1, String, ""))
	assert.Equal(t, 2, tbl.Columns())
	assert.Nil(t, tbl.Header())
}

func TestRemoveColumn(t *testing.T) {
	tbl := peopleTable(t)
	require.NoError(t, tbl.RemoveColumn(0))
	assert.Equal(t, []string{"age"}, tbl.Header())
	row, _ := tbl.Row(1)
	assert.Equal(t, []string{"45"}, row)
	assert.Error(t, tbl.RemoveColumn(1))
}

func TestSetFieldTypeMismatch(t *testing.T) {
	tbl := peopleTable(t)

	err := tbl.SetField(1, 0, StringField("thirty"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	f, _ := tbl.Field(1, 0)
	assert.Equal(t, int64(30), f.Int)

	require.NoError(t, tbl.SetField(1, 0, IntField(31)))
	f, _ = tbl.Field(1, 0)
	assert.Equal(t, int64(31), f.Int)
}

func TestUnsetStringFieldRendersEmpty(t *testing.T) {
	tbl := peopleTable(t)

	require.NoError(t, tbl.SetField(0, 0, Field{Type: String, Str: "stale"}))
	row, err := tbl.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "30"}, row)

	f, _ := tbl.Field(0, 0)
	assert.False(t, f.Set)
	assert.Equal(t, "", f.String())
}

func TestTypedColumnSet(t *testing.T) {
	tbl, err := New([]DataType{Double, Date}, nil)
	require.NoError(t, err)
	_, err = tbl.AppendRow([]string{"1.5", "2024-01-02 10:00:00"}, StopOnError)
	require.NoError(t, err)

	c, _ := tbl.Column(0)
	prices := c.(*DoubleColumn)
	v, _ := prices.Get(0)
	prices.Set(0, v*2)

	row, _ := tbl.Row(0)
	assert.Equal(t, []string{"3", "2024-01-02 10:00:00"}, row)

	d, _ := tbl.Column(1)
	when, ok := d.(*DateColumn).Get(0)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), when)
}

func TestQuoteStringFields(t *testing.T) {
	tbl, err := New([]DataType{String, Int, String}, nil)
	require.NoError(t, err)
	_, err = tbl.AppendRow([]string{"plain", "1", `"quoted"`}, StopOnError)
	require.NoError(t, err)
	_, err = tbl.AppendRow([]string{`say "hi"`, "2", ""}, StopOnError)
	require.NoError(t, err)

	tbl.QuoteStringFields()

	row, _ := tbl.Row(0)
	assert.Equal(t, []string{`"plain"`, "1", `"quoted"`}, row)
	row, _ = tbl.Row(1)
	assert.Equal(t, []string{`"say ""hi"""`, "2", `""`}, row)
}

func TestTruncate(t *testing.T) {
	tbl := peopleTable(t)
	tbl.Truncate()
	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, 2, tbl.Columns())
	assert.Equal(t, []string{"name", "age"}, tbl.Header())
}

func TestParseDataTypes(t *testing.T) {
	types, err := ParseDataTypes([]string{"int", "Double", "date", "string"})
	require.NoError(t, err)
	assert.Equal(t, []DataType{Int, Double, Date, String}, types)

	_, err = ParseDataTypes([]string{"bool"})
	assert.Error(t, err)
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "", Field{Type: Int}.String())
	assert.Equal(t, "42", IntField(42).String())
	assert.Equal(t, "42.5", DoubleField(42.5).String())
	assert.Equal(t, "0.1", DoubleField(0.1).String())
	assert.Equal(t, "2024-01-02 10:00:00", DateField(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, `"x"`, StringField(`"x"`).String())
}
