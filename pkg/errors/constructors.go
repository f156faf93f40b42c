package errors

// UnableToOpenFile reports a source or destination path that could not be opened.
func UnableToOpenFile(path string, cause error) *Error {
	if cause == nil {
		return New(ErrorTypeFile, "unable to open file").WithDetail("path", path)
	}
	return Wrap(cause, ErrorTypeFile, "unable to open file").WithDetail("path", path)
}

// ChunkSizeExceedsFile reports a chunked load whose chunk is larger than the file.
func ChunkSizeExceedsFile(chunkSize, fileSize int64) *Error {
	return Newf(ErrorTypeChunkSize, "chunk size %d exceeds file size %d", chunkSize, fileSize).
		WithDetail("chunk_size", chunkSize).
		WithDetail("file_size", fileSize)
}

// UnableToConvertFieldType reports a raw value that does not parse as its column kind.
func UnableToConvertFieldType(kind, raw string, row int) *Error {
	return Newf(ErrorTypeConversion, "unable to convert %q to %s at row %d", raw, kind, row).
		WithDetail("kind", kind).
		WithDetail("value", raw).
		WithDetail("row", row)
}

// UnableToSplitRecord reports a record whose field count differs from the table's.
func UnableToSplitRecord(row, got, want int) *Error {
	return Newf(ErrorTypeSplit, "record %d has %d fields, expected %d", row, got, want).
		WithDetail("row", row).
		WithDetail("fields", got).
		WithDetail("columns", want)
}

// InvalidColumnCaption reports a caption that matches no header entry.
func InvalidColumnCaption(caption string) *Error {
	return Newf(ErrorTypeInvalidCaption, "no column with caption %q", caption).
		WithDetail("caption", caption)
}

// HeaderNotAvailable reports a caption operation on a table without a header.
func HeaderNotAvailable() *Error {
	return New(ErrorTypeHeaderNotAvailable, "header is not available")
}

// OutOfRange reports an index outside the addressable range.
func OutOfRange(what string, index int) *Error {
	return Newf(ErrorTypeOutOfRange, "%s index %d out of range", what, index).
		WithDetail("index", index)
}
