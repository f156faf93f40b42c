package table

import (
	"regexp"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// CompilePattern compiles a search pattern, reporting failures as
// validation errors.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid pattern").
			WithDetail("pattern", pattern)
	}
	return re, nil
}

// FindAll returns the fields of col whose text matches re, in row order.
func (t *Table) FindAll(col int, re *regexp.Regexp) ([]Field, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	var found []Field
	for i := 0; i < t.rows; i++ {
		if re.MatchString(c.String(i)) {
			found = append(found, c.Field(i))
		}
	}
	return found, nil
}

// FindRows returns the local indices of rows whose col text matches re.
func (t *Table) FindRows(col int, re *regexp.Regexp) ([]int, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i := 0; i < t.rows; i++ {
		if re.MatchString(c.String(i)) {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// FindAllRows returns every row whose col text matches re, rendered as
// strings.
func (t *Table) FindAllRows(col int, re *regexp.Regexp) ([][]string, error) {
	idx, err := t.FindRows(col, re)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(idx))
	for _, i := range idx {
		rows = append(rows, t.row(i))
	}
	return rows, nil
}

// ReplaceAll rewrites every matching cell of a String column with
// re.ReplaceAllString(value, replacement) and returns how many cells
// changed. $1 style references are expanded.
func (t *Table) ReplaceAll(col int, re *regexp.Regexp, replacement string) (int, error) {
	c, err := t.Column(col)
	if err != nil {
		return 0, err
	}
	sc, ok := c.(*StringColumn)
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeOutOfRange, "column %d is %s, not string", col, c.Type()).
			WithDetail("column", col)
	}

	count := 0
	for i := range sc.data {
		v := sc.data[i].Value
		if !re.MatchString(v) {
			continue
		}
		sc.Set(i, re.ReplaceAllString(v, replacement))
		count++
	}
	return count, nil
}
