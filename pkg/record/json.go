package record

import "strings"

// Property is one name : value pair of a JSON object body. Name has its
// quotes removed; Value is the raw text.
type Property struct {
	Name  string
	Value string
}

// ParseObject splits an object body into its properties in order. An entry
// without a top-level colon yields an empty Property so positions are kept.
func ParseObject(body string) []Property {
	parts := Split(body, ',')
	props := make([]Property, len(parts))
	for i, p := range parts {
		props[i], _ = SplitProperty(p)
	}
	return props
}

// SplitProperty cuts p at its first colon outside quotes.
func SplitProperty(p string) (Property, bool) {
	quoted := false
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '"':
			quoted = !quoted
		case ':':
			if quoted {
				continue
			}
			name := strings.Trim(p[:i], whitespace)
			value := strings.Trim(p[i+1:], whitespace)
			return Property{Name: Unquote(name), Value: value}, true
		}
	}
	return Property{}, false
}

// Unquote strips one pair of surrounding double quotes.
func Unquote(s string) string {
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Names returns the property names in order.
func Names(props []Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

// Values returns the property values in order.
func Values(props []Property) []string {
	values := make([]string, len(props))
	for i, p := range props {
		values[i] = p.Value
	}
	return values
}
