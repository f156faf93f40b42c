package handler

import (
	"github.com/ajitpratap0/tabula/pkg/table"
)

// FindAll returns the fields of column col whose text matches pattern.
func (h *Handler) FindAll(col int, pattern string) ([]table.Field, error) {
	tbl, err := h.current()
	if err != nil {
		return nil, err
	}
	re, err := table.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	return tbl.FindAll(col, re)
}

// FindAllByCaption is FindAll on the column named caption.
func (h *Handler) FindAllByCaption(caption, pattern string) ([]table.Field, error) {
	col, err := h.GetColumnID(caption)
	if err != nil {
		return nil, err
	}
	return h.FindAll(col, pattern)
}

// FindAllRows returns every row whose column col matches pattern.
func (h *Handler) FindAllRows(col int, pattern string) ([][]string, error) {
	tbl, err := h.current()
	if err != nil {
		return nil, err
	}
	re, err := table.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	return tbl.FindAllRows(col, re)
}

// FindAllRowsByCaption is FindAllRows on the column named caption.
func (h *Handler) FindAllRowsByCaption(caption, pattern string) ([][]string, error) {
	col, err := h.GetColumnID(caption)
	if err != nil {
		return nil, err
	}
	return h.FindAllRows(col, pattern)
}

// FindRowIndices returns the absolute indices of rows whose column col
// matches pattern.
func (h *Handler) FindRowIndices(col int, pattern string) ([]int, error) {
	tbl, err := h.current()
	if err != nil {
		return nil, err
	}
	re, err := table.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	rows, err := tbl.FindRows(col, re)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i] += h.window.Begin
	}
	return rows, nil
}

// ReplaceAll substitutes replacement into every cell of String column col
// matching pattern and returns the number of cells changed.
func (h *Handler) ReplaceAll(col int, pattern, replacement string) (int, error) {
	tbl, err := h.current()
	if err != nil {
		return 0, err
	}
	re, err := table.CompilePattern(pattern)
	if err != nil {
		return 0, err
	}
	return tbl.ReplaceAll(col, re, replacement)
}

// ReplaceAllByCaption is ReplaceAll on the column named caption.
func (h *Handler) ReplaceAllByCaption(caption, pattern, replacement string) (int, error) {
	col, err := h.GetColumnID(caption)
	if err != nil {
		return 0, err
	}
	return h.ReplaceAll(col, pattern, replacement)
}
