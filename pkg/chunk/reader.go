// Package chunk reads fixed-size byte ranges of a source file.
//
// Readers open and close the file within every call, so a session holds no
// file handle between chunk loads.
package chunk

import (
	"context"
	"io"
	"os"

	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/mmap"
)

// Reader returns up to size bytes of a file starting at offset. Fewer bytes
// are returned only at the end of the file.
type Reader interface {
	ReadChunk(ctx context.Context, offset, size int64) ([]byte, error)
	Path() string
}

// NewReader returns the backend selected by kind.
func NewReader(kind config.ReaderKind, path string) Reader {
	if kind == config.ReaderMmap {
		return NewMmapReader(path)
	}
	return NewFileReader(path)
}

// FileReader uses positioned reads on an os.File.
type FileReader struct {
	path string
}

// NewFileReader returns a FileReader for path.
func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

func (r *FileReader) Path() string { return r.path }

func (r *FileReader) ReadChunk(ctx context.Context, offset, size int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path) //nolint:gosec // G304: path comes from the session config
	if err != nil {
		return nil, errors.UnableToOpenFile(r.path, err)
	}
	defer f.Close()

	buf := make([]byte, size)
	n, err := f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read chunk").
			WithDetail("path", r.path).
			WithDetail("offset", offset)
	}
	return buf[:n], nil
}

// MmapReader maps the pages covering each requested range for the duration
// of the read and copies the range out.
type MmapReader struct {
	path string

	bytesRead   int64
	pagesMapped int64
}

// NewMmapReader returns an MmapReader for path.
func NewMmapReader(path string) *MmapReader {
	return &MmapReader{path: path}
}

func (r *MmapReader) Path() string { return r.path }

func (r *MmapReader) ReadChunk(ctx context.Context, offset, size int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mr, err := mmap.NewReader(r.path)
	if err != nil {
		return nil, errors.UnableToOpenFile(r.path, err)
	}
	defer mr.Close()

	data, err := mr.ReadRange(offset, size)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read chunk").
			WithDetail("path", r.path).
			WithDetail("offset", offset)
	}
	bytesRead, pages := mr.Stats()
	r.bytesRead += bytesRead
	r.pagesMapped += pages
	return data, nil
}

// Stats returns the bytes read and pages mapped over every ReadChunk call.
func (r *MmapReader) Stats() (bytesRead, pagesMapped int64) {
	return r.bytesRead, r.pagesMapped
}

// FileSize returns the size of path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.UnableToOpenFile(path, err)
	}
	if info.IsDir() {
		return 0, errors.UnableToOpenFile(path, nil).WithDetail("reason", "is a directory")
	}
	return info.Size(), nil
}
