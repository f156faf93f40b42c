// Package mmap reads byte ranges of a file through short-lived memory
// mappings. Each read maps only the pages covering the requested range.
package mmap

import (
	"fmt"
	"math"
	"os"
	"sync"
)

// Reader serves ranges of one open file.
type Reader struct {
	file     *os.File
	fileSize int64
	pageSize int64

	// Stats
	bytesRead   int64
	pagesMapped int64

	mu sync.Mutex
}

// NewReader opens filename. Nothing is mapped until ReadRange.
func NewReader(filename string) (*Reader, error) {
	file, err := os.Open(filename) //nolint:gosec // G304: path comes from the session config
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &Reader{
		file:     file,
		fileSize: stat.Size(),
		pageSize: int64(os.Getpagesize()),
	}, nil
}

// Size returns the file size
func (r *Reader) Size() int64 { return r.fileSize }

// ReadRange returns a copy of up to length bytes starting at offset. The
// mapping starts at the page boundary at or below offset and is released
// before ReadRange returns.
func (r *Reader) ReadRange(offset, length int64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil, fmt.Errorf("reader is closed")
	}
	if offset == r.fileSize || length == 0 {
		return nil, nil
	}
	if offset < 0 || offset > r.fileSize || length < 0 {
		return nil, fmt.Errorf("range [%d, +%d) out of file of %d bytes", offset, length, r.fileSize)
	}

	end := r.fileSize
	if length < end-offset {
		end = offset + length
	}
	start := offset &^ (r.pageSize - 1)
	span := end - start
	if span > math.MaxInt {
		return nil, fmt.Errorf("range of %d bytes exceeds the address space", span)
	}

	data, err := mapRange(int(r.file.Fd()), start, int(span))
	if err != nil {
		return nil, fmt.Errorf("failed to mmap [%d, %d): %w", start, end, err)
	}
	_ = adviseSequential(data)

	out := make([]byte, end-offset)
	copy(out, data[offset-start:])
	if err := unmap(data); err != nil {
		return nil, fmt.Errorf("failed to munmap: %w", err)
	}

	r.bytesRead += end - offset
	r.pagesMapped += (span + r.pageSize - 1) / r.pageSize
	return out, nil
}

// Close closes the file
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Stats returns the bytes returned and pages mapped so far
func (r *Reader) Stats() (bytesRead, pagesMapped int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytesRead, r.pagesMapped
}
