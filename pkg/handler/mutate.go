package handler

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/record"
	"github.com/ajitpratap0/tabula/pkg/table"
)

// InsertRow converts fields into a new row at absolute position pos, or
// after the last row when pos is End. The row goes through the same
// conversion as loaded records and mode applies the same way. inserted is
// false with a nil error when pos lies beyond a window that is not the
// last one, or when IgnoreErrors dropped the row.
func (h *Handler) InsertRow(fields []string, pos int, mode ErrorMode) (bool, error) {
	tbl, err := h.current()
	if err != nil {
		return false, err
	}

	local := tbl.Rows()
	if pos != End {
		switch {
		case pos < h.window.Begin:
			return false, errors.OutOfRange("row", pos)
		case pos > h.window.End:
			if h.window.EOF {
				return false, errors.OutOfRange("row", pos)
			}
			return false, nil
		}
		local = pos - h.window.Begin
	}

	tolerated, err := tbl.InsertRow(local, fields, mode)
	if err != nil {
		if mode == IgnoreErrors && errors.IsType(err, errors.ErrorTypeSplit) {
			h.metrics.RecordRejected()
			h.logger.Warn("inserted row rejected", zap.Error(err))
			return false, nil
		}
		return false, err
	}
	h.conversionsTolerated(tolerated, h.logger)
	h.window.End = h.window.Begin + tbl.Rows()
	return true, nil
}

// InsertRecord splits rec with the source delimiter and inserts it like
// InsertRow.
func (h *Handler) InsertRecord(rec string, pos int, mode ErrorMode) (bool, error) {
	return h.InsertRow(record.Split(rec, h.delim), pos, mode)
}

// RemoveRow deletes absolute row. removed is false with a nil error when
// the row has not been loaded yet.
func (h *Handler) RemoveRow(row int) (bool, error) {
	i, ok, err := h.locate(row)
	if !ok {
		return false, err
	}
	if err := h.table.RemoveRow(i); err != nil {
		return false, err
	}
	h.window.End--
	return true, nil
}

// InsertColumn places col at pos in the current chunk, or after the last
// column when pos is End. col must have one cell per loaded row. A caption
// requires a header.
func (h *Handler) InsertColumn(col table.Column, caption string, pos int) error {
	tbl, err := h.current()
	if err != nil {
		return err
	}
	return tbl.InsertColumn(columnPos(tbl, pos), col, caption)
}

// InsertEmptyColumn inserts a column of unset cells of type typ at pos,
// or after the last column when pos is End.
func (h *Handler) InsertEmptyColumn(typ table.DataType, caption string, pos int) error {
	tbl, err := h.current()
	if err != nil {
		return err
	}
	return tbl.InsertEmptyColumn(columnPos(tbl, pos), typ, caption)
}

func columnPos(tbl *table.Table, pos int) int {
	if pos == End {
		return tbl.Columns()
	}
	return pos
}

// RemoveColumn deletes column col of the current chunk.
func (h *Handler) RemoveColumn(col int) error {
	tbl, err := h.current()
	if err != nil {
		return err
	}
	return tbl.RemoveColumn(col)
}

// RemoveColumnByCaption deletes the column named caption.
func (h *Handler) RemoveColumnByCaption(caption string) error {
	col, err := h.GetColumnID(caption)
	if err != nil {
		return err
	}
	return h.RemoveColumn(col)
}

// QuoteStringFields wraps every String cell of the current chunk in double
// quotes unless it is already quoted.
func (h *Handler) QuoteStringFields() error {
	tbl, err := h.current()
	if err != nil {
		return err
	}
	tbl.QuoteStringFields()
	return nil
}
