package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Region is the result of looking up a marker. Body and Offset are only
// meaningful when Found is true.
type Region struct {
	Found  bool
	Body   string // text between the brackets, exclusive
	Offset int    // byte offset of Body within the document
}

// Find returns the body of the first well-formed "marker: [ ... ]" block in
// doc. Occurrences of marker that are not followed by a colon and an opening
// bracket are skipped.
func Find(doc, marker string) Region {
	if marker == "" {
		return Region{}
	}
	from := 0
	for {
		i := strings.Index(doc[from:], marker)
		if i < 0 {
			return Region{}
		}
		start := from + i
		if open, ok := openBracket(doc, start+len(marker)); ok {
			end := strings.IndexByte(doc[open:], ']')
			if end < 0 {
				// No closing bracket anywhere after this point.
				return Region{}
			}
			return Region{Found: true, Body: doc[open : open+end], Offset: open}
		}
		from = start + 1
	}
}

// openBracket matches `\s*:\s*\[` at pos and returns the offset just past
// the bracket.
func openBracket(doc string, pos int) (int, bool) {
	pos = skipSpace(doc, pos)
	if pos >= len(doc) || doc[pos] != ':' {
		return 0, false
	}
	pos = skipSpace(doc, pos+1)
	if pos >= len(doc) || doc[pos] != '[' {
		return 0, false
	}
	return pos + 1, true
}

func skipSpace(doc string, pos int) int {
	for pos < len(doc) {
		r, size := utf8.DecodeRuneInString(doc[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}
