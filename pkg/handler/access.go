package handler

import (
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/table"
)

func errNoChunk() error {
	return errors.New(errors.ErrorTypeOutOfRange, "no chunk loaded")
}

// current returns the loaded chunk.
func (h *Handler) current() (*table.Table, error) {
	if h.table == nil {
		return nil, errNoChunk()
	}
	return h.table, nil
}

// locate maps an absolute row to the current chunk. Rows before the window
// are out of range; rows after it are out of range only once the whole
// source has been read, otherwise they are reported as not yet loaded.
func (h *Handler) locate(row int) (int, bool, error) {
	if row < h.window.Begin {
		return 0, false, errors.OutOfRange("row", row)
	}
	if row >= h.window.End {
		if h.window.EOF {
			return 0, false, errors.OutOfRange("row", row)
		}
		return 0, false, nil
	}
	return row - h.window.Begin, true, nil
}

// GetColumnID resolves a caption to its column index.
func (h *Handler) GetColumnID(caption string) (int, error) {
	tbl, err := h.current()
	if err != nil {
		return 0, err
	}
	return tbl.ColumnID(caption)
}

// GetColumn returns column col of the current chunk.
func (h *Handler) GetColumn(col int) (table.Column, error) {
	tbl, err := h.current()
	if err != nil {
		return nil, err
	}
	return tbl.Column(col)
}

// GetColumnByCaption returns the column named caption.
func (h *Handler) GetColumnByCaption(caption string) (table.Column, error) {
	col, err := h.GetColumnID(caption)
	if err != nil {
		return nil, err
	}
	return h.GetColumn(col)
}

// GetField returns the cell at column col and absolute row. ok is false
// with a nil error when the row has not been loaded yet.
func (h *Handler) GetField(col, row int) (table.Field, bool, error) {
	i, ok, err := h.locate(row)
	if !ok {
		return table.Field{}, false, err
	}
	f, err := h.table.Field(col, i)
	if err != nil {
		return table.Field{}, false, err
	}
	return f, true, nil
}

// GetFieldByCaption is GetField with the column named by caption.
func (h *Handler) GetFieldByCaption(caption string, row int) (table.Field, bool, error) {
	col, err := h.GetColumnID(caption)
	if err != nil {
		return table.Field{}, false, err
	}
	return h.GetField(col, row)
}

// GetRow renders absolute row as strings in column order.
func (h *Handler) GetRow(row int) ([]string, bool, error) {
	i, ok, err := h.locate(row)
	if !ok {
		return nil, false, err
	}
	fields, err := h.table.Row(i)
	if err != nil {
		return nil, false, err
	}
	return fields, true, nil
}

// SetField stores f at column col and absolute row. f must have the
// column's type.
func (h *Handler) SetField(col, row int, f table.Field) (bool, error) {
	i, ok, err := h.locate(row)
	if !ok {
		return false, err
	}
	if err := h.table.SetField(col, i, f); err != nil {
		return false, err
	}
	return true, nil
}
