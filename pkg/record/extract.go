package record

import (
	"regexp"
)

// Extractor cuts chunks into complete records. Bytes after the last
// complete record are carried over and prepended to the next chunk.
type Extractor interface {
	// Extract returns the complete records in carry-over plus chunk. When
	// eof is true nothing is carried over.
	Extract(chunk []byte, eof bool) []string
	// Pending returns the number of carried-over bytes.
	Pending() int
	// Reset drops any carry-over.
	Reset()
}

// CSVExtractor splits on CR and LF. A line is emitted only once it is
// longer than columns-1 bytes; shorter lines keep accumulating into the
// next one.
type CSVExtractor struct {
	columns int
	carry   []byte
}

// NewCSVExtractor returns an extractor for tables of columns columns. A
// zero column count emits every non-empty line.
func NewCSVExtractor(columns int) *CSVExtractor {
	return &CSVExtractor{columns: columns}
}

// SetColumns updates the column count once it is known.
func (e *CSVExtractor) SetColumns(columns int) { e.columns = columns }

func (e *CSVExtractor) long(buf []byte) bool {
	return len(buf) > 0 && len(buf) > e.columns-1
}

func (e *CSVExtractor) Extract(chunk []byte, eof bool) []string {
	buf := make([]byte, 0, len(e.carry)+len(chunk))
	buf = append(buf, e.carry...)
	e.carry = nil

	var records []string
	for _, b := range chunk {
		if b != '\n' && b != '\r' {
			buf = append(buf, b)
			continue
		}
		if e.long(buf) {
			records = append(records, string(buf))
			buf = buf[:0]
		}
	}

	if len(buf) > 0 {
		if eof {
			if e.long(buf) {
				records = append(records, string(buf))
			}
		} else {
			e.carry = append([]byte(nil), buf...)
		}
	}
	return records
}

func (e *CSVExtractor) Pending() int { return len(e.carry) }

func (e *CSVExtractor) Reset() { e.carry = nil }

var objectPattern = regexp.MustCompile(`\{[^{]*\}`)

// JSONExtractor emits the body of every flat {...} object. Nested objects
// are not supported. Anything after the last object is carried over; at
// eof it is dropped.
type JSONExtractor struct {
	carry []byte
}

// NewJSONExtractor returns an empty extractor.
func NewJSONExtractor() *JSONExtractor {
	return &JSONExtractor{}
}

func (e *JSONExtractor) Extract(chunk []byte, eof bool) []string {
	buf := make([]byte, 0, len(e.carry)+len(chunk))
	buf = append(buf, e.carry...)
	for _, b := range chunk {
		if b != '\n' && b != '\r' {
			buf = append(buf, b)
		}
	}
	e.carry = nil

	var records []string
	last := 0
	for _, m := range objectPattern.FindAllIndex(buf, -1) {
		records = append(records, string(buf[m[0]+1:m[1]-1]))
		last = m[1]
	}

	if !eof && last < len(buf) {
		e.carry = append([]byte(nil), buf[last:]...)
	}
	return records
}

func (e *JSONExtractor) Pending() int { return len(e.carry) }

func (e *JSONExtractor) Reset() { e.carry = nil }
