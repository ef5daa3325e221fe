// Package csvfeed splits the comma-separated feeds published with GeoLite2
// databases into fields and locates the columns a consumer needs.
package csvfeed

import "strings"

const (
	separator = ','
	quote     = '"'
)

// Tokenize splits a line into at most maxFields fields.
//
// A field may be wrapped in double quotes, inside which a doubled quote stands
// for a literal one and separators are not special. Unquoted text, including
// surrounding whitespace, is kept as is. Once maxFields-1 fields have been cut,
// the remainder of the line becomes the last field verbatim. A trailing line
// terminator is removed from the last field.
func Tokenize(line string, maxFields int) []string {
	if maxFields <= 0 {
		return nil
	}
	if line == "" {
		return []string{""}
	}
	if maxFields == 1 {
		return []string{stripEOL(line)}
	}

	fields := make([]string, 0, 8)
	var field strings.Builder
	inQuotes := false
	atFieldStart := true

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case inQuotes && c == quote && i+1 < len(line) && line[i+1] == quote:
			field.WriteByte(quote)
			i++
			atFieldStart = false
			continue

		case !inQuotes && atFieldStart && c == quote:
			inQuotes = true
			atFieldStart = false
			continue

		case inQuotes && c == quote:
			inQuotes = false
			// A closing quote is only dropped at the end of the field; anywhere
			// else the field is malformed and the quote is kept.
			if next := line[i+1:]; next != "" && next[0] != separator && !isEOL(next) {
				field.WriteByte(c)
			}
			continue

		case !inQuotes && c == separator:
			fields = append(fields, field.String())
			field.Reset()
			atFieldStart = true
			if len(fields) >= maxFields-1 {
				return append(fields, stripEOL(line[i+1:]))
			}
			continue
		}

		field.WriteByte(c)
		atFieldStart = false
	}

	return append(fields, stripEOL(field.String()))
}

func stripEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

func isEOL(s string) bool {
	return s == "\n" || s == "\r\n" || s == "\r"
}
