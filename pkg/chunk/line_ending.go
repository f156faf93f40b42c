package chunk

import (
	"io"
	"os"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// LineEnding is the record terminator found in a source.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
	CR   LineEnding = "\r"
)

func (l LineEnding) String() string {
	switch l {
	case CRLF:
		return "crlf"
	case CR:
		return "cr"
	default:
		return "lf"
	}
}

const probeSize = 64 * 1024

// DetectLineEnding returns the terminator of the first line break in data,
// or LF when there is none. complete tells whether data is the whole file;
// if not, a CR in the last byte is assumed to start a CRLF.
func DetectLineEnding(data []byte, complete bool) LineEnding {
	for i, b := range data {
		switch b {
		case '\n':
			return LF
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return CRLF
				}
				return CR
			}
			if complete {
				return CR
			}
			return CRLF
		}
	}
	return LF
}

// DetectFileLineEnding probes the start of path.
func DetectFileLineEnding(path string) (LineEnding, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the session config
	if err != nil {
		return LF, errors.UnableToOpenFile(path, err)
	}
	defer f.Close()

	buf := make([]byte, probeSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return LF, errors.Wrap(err, errors.ErrorTypeFile, "failed to probe line ending").
			WithDetail("path", path)
	}
	return DetectLineEnding(buf[:n], n < probeSize), nil
}
