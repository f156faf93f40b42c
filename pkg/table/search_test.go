package table

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

func mustCompile(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re, err := CompilePattern(pattern)
	require.NoError(t, err)
	return re
}

func TestFindAllRows(t *testing.T) {
	tbl := peopleTable(t)

	rows, err := tbl.FindAllRows(1, mustCompile(t, "^4[0-9]$"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Bob", "45"}}, rows)

	fields, err := tbl.FindAll(0, mustCompile(t, "o"))
	require.NoError(t, err)
	assert.Equal(t, []Field{StringField("Bob")}, fields)

	idx, err := tbl.FindRows(0, mustCompile(t, "."))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, idx)
}

func TestReplaceAll(t *testing.T) {
	tbl := peopleTable(t)

	n, err := tbl.ReplaceAll(0, mustCompile(t, "^A"), "Z")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	row, _ := tbl.Row(0)
	assert.Equal(t, []string{"Zlice", "30"}, row)
}

func TestReplaceAllCountsFieldsOnce(t *testing.T) {
	tbl, err := New([]DataType{String}, nil)
	require.NoError(t, err)
	for _, v := range []string{"a a a", "b", "aa"} {
		_, err := tbl.AppendRow([]string{v}, StopOnError)
		require.NoError(t, err)
	}

	n, err := tbl.ReplaceAll(0, mustCompile(t, "a"), "x")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	row, _ := tbl.Row(0)
	assert.Equal(t, []string{"x x x"}, row)
}

func TestReplaceAllCaptureGroups(t *testing.T) {
	tbl, err := New([]DataType{String}, nil)
	require.NoError(t, err)
	_, err = tbl.AppendRow([]string{"John Smith"}, StopOnError)
	require.NoError(t, err)

	n, err := tbl.ReplaceAll(0, mustCompile(t, `^(\S+) .*`), "$1 xxx")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	row, _ := tbl.Row(0)
	assert.Equal(t, []string{"John xxx"}, row)
}

func TestReplaceAllRequiresStringColumn(t *testing.T) {
	tbl := peopleTable(t)
	_, err := tbl.ReplaceAll(1, mustCompile(t, "3"), "4")
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestCompilePatternInvalid(t *testing.T) {
	_, err := CompilePattern("(")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
