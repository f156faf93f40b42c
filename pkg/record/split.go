// Package record turns raw chunk bytes into records and records into fields.
//
// Split is the quote-aware tokenizer shared by CSV lines and JSON object
// bodies. CSVExtractor and JSONExtractor cut a chunk into complete records
// and keep the incomplete tail as carry-over for the next chunk.
package record

import "strings"

const whitespace = " \t"

// Split cuts record at delim into fields.
//
// Leading spaces and tabs before a field are skipped and trailing ones are
// trimmed. A field that starts with a double quote runs to the first
// delimiter preceded by an even number of quotes, so quoted delimiters and
// doubled "" pairs stay inside the field. Quotes are kept in the field
// text. A trailing delimiter, or a remainder made only of whitespace,
// yields one final empty field. Split never fails.
func Split(record string, delim byte) []string {
	fields := make([]string, 0, strings.Count(record, string(delim))+1)
	pos := 0
	for {
		if pos == len(record) {
			return append(fields, "")
		}
		start := skipWhitespace(record, pos)
		if start == len(record) {
			return append(fields, "")
		}

		var end int
		if record[start] == '"' {
			end = quotedEnd(record, start, delim)
		} else {
			end = strings.IndexByte(record[start:], delim)
			if end >= 0 {
				end += start
			} else {
				end = len(record)
			}
		}

		fields = append(fields, trimField(record[start:end]))
		if end >= len(record) {
			return fields
		}
		pos = end + 1
	}
}

func skipWhitespace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

// quotedEnd returns the index of the delimiter closing the quoted field at
// start, or len(s) when the field runs to the end.
func quotedEnd(s string, start int, delim byte) int {
	quotes := 1
	pos := start + 1
	for pos < len(s) && (quotes%2 == 1 || s[pos] != delim) {
		if s[pos] == '"' {
			quotes++
		}
		pos++
	}
	return pos
}

func trimField(field string) string {
	trimmed := strings.TrimRight(field, whitespace)
	if trimmed == "" {
		return field
	}
	return trimmed
}

// Join is the inverse of Split for fields that need no quoting.
func Join(fields []string, delim byte) string {
	return strings.Join(fields, string(delim))
}
