package record

import "bytes"

var bom = []byte{0xEF, 0xBB, 0xBF}

// TrimBOM drops a UTF-8 byte order mark from the start of data.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, bom)
}

// FirstLines returns up to n non-empty lines from the start of data. A line
// that is not terminated within data is returned only when complete is
// true.
func FirstLines(data []byte, n int, complete bool) []string {
	var lines []string
	start := 0
	for i := 0; i < len(data) && len(lines) < n; i++ {
		if data[i] != '\n' && data[i] != '\r' {
			continue
		}
		if i > start {
			lines = append(lines, string(data[start:i]))
		}
		start = i + 1
	}
	if len(lines) < n && complete && start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

// CutLine returns the first non-empty line of data and the bytes after its
// terminator. ok is false when no terminated line exists; rest then holds
// data without its leading terminators.
func CutLine(data []byte) (line, rest []byte, ok bool) {
	start := 0
	for start < len(data) && (data[start] == '\n' || data[start] == '\r') {
		start++
	}
	for i := start; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			return data[start:i], data[i+1:], true
		}
	}
	return nil, data[start:], false
}
