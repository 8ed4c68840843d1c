package importer

import "strings"

// ParseDelimited splits comma-separated text into rows of raw cells.
//
// Quoted fields may contain commas, newlines and carriage returns; a doubled
// quote inside a quoted field is a literal quote. Carriage returns outside
// quotes are dropped so both \n and \r\n line endings work. Malformed quoting
// never fails: an unterminated quote runs to the end of the input.
func ParseDelimited(text string) [][]string {
	rows := make([][]string, 0, 64)

	var (
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	// Delimiters are all ASCII, so scanning bytes never splits a UTF-8 sequence.
	for i := 0; i < len(text); i++ {
		char := text[i]

		if inQuotes {
			switch {
			case char == '"' && i+1 < len(text) && text[i+1] == '"':
				field.WriteByte('"')
				i++
			case char == '"':
				inQuotes = false
			default:
				field.WriteByte(char)
			}
			continue
		}

		switch char {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, field.String())
			field.Reset()
		case '\n':
			row = append(row, field.String())
			rows = append(rows, row)
			row = nil
			field.Reset()
		case '\r':
		default:
			field.WriteByte(char)
		}
	}

	// Flush the last row for files without a trailing newline.
	if field.Len() > 0 || len(row) > 0 {
		row = append(row, field.String())
		rows = append(rows, row)
	}

	return rows
}
