package codec

import "strings"

// Escape quotes field for writing as one CSV field.
//
// Quotes are doubled. The result is wrapped in quotes only if it then
// contains a comma, a newline or a quote; any other field is returned
// unchanged.
func Escape(field string) string {
	escaped := strings.ReplaceAll(field, `"`, `""`)

	if !strings.ContainsAny(escaped, ",\n\"") {
		return escaped
	}

	return `"` + escaped + `"`
}

// Unescape reverses [Escape]: Unescape(Escape(s)) == s for every s.
//
// A field that is not wrapped in quotes is returned as is.
func Unescape(field string) string {
	if len(field) < 2 || field[0] != quote || field[len(field)-1] != quote {
		return field
	}

	return strings.ReplaceAll(field[1:len(field)-1], `""`, `"`)
}

// AppendRow writes the escaped fields and a \n terminator to b.
func AppendRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(comma)
		}

		b.WriteString(Escape(f))
	}

	b.WriteByte(newline)
}
