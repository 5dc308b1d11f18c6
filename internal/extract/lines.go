package extract

import (
	"regexp"
	"strings"
)

// bulletPrefix strips list markers: whitespace, dashes, bullets, asterisks and "1." / "2)" numbering
var bulletPrefix = regexp.MustCompile(`^[\s\p{Zs}\-•*\d.)]+`)

// Line is one non-empty line of a note
type Line struct {
	Index int    // Physical line number (0-based) in the source text
	Raw   string // Trimmed line, list marker included
	Clean string // Trimmed line with the list marker stripped
}

// NormalizeLines splits text into trimmed lines and strips list markers.
// Lines that are empty once the marker is gone are skipped; Index keeps the
// physical position so callers can tell whether two lines were adjacent.
func NormalizeLines(text string) []Line {
	physical := strings.Split(text, "\n")
	lines := make([]Line, 0, len(physical))

	for i, p := range physical {
		raw := strings.TrimSpace(p) // also drops the \r of \r\n endings
		if raw == "" {
			continue
		}

		clean := strings.TrimSpace(bulletPrefix.ReplaceAllString(raw, ""))
		if clean == "" {
			continue
		}

		lines = append(lines, Line{Index: i, Raw: raw, Clean: clean})
	}

	return lines
}
