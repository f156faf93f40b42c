// Package table holds one loaded chunk of tabular data as typed columns.
//
// A Table is rectangular: every Column has Rows() cells and, when a header
// is present, one caption per column. Columns are tagged by their concrete
// type (IntColumn, DoubleColumn, DateColumn, StringColumn) and store their
// cells by value, so removing a row or column is a slice operation.
//
// Cells carry an explicit set flag. A cell is unset when its raw text could
// not be converted and the caller chose IgnoreErrors, or when it was created
// by InsertEmptyColumn. Unset cells render as the empty string.
//
// Row indices used by Table are local to the chunk. Base records the
// absolute index of row 0 and is used only to report absolute rows in
// errors; windowed addressing lives in package handler.
package table
