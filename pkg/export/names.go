package export

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/tabula/pkg/record"
)

// FieldNames returns one schema field name per column. Captions are
// unquoted and reduced to [A-Za-z0-9_] with a non-digit first character;
// missing, empty or duplicate names fall back to column_<i>.
func FieldNames(header []string, columns int) []string {
	names := make([]string, columns)
	seen := make(map[string]bool, columns)
	for i := range names {
		name := ""
		if i < len(header) {
			name = sanitize(record.Unquote(header[i]))
		}
		if name == "" || seen[name] {
			name = fmt.Sprintf("column_%d", i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			if b.Len() > 0 {
				b.WriteByte('_')
			}
		}
	}
	return b.String()
}
