// Package position converts between byte offsets in UTF-8 text and LSP
// positions, which count UTF-16 code units per line.
package position

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset converts a UTF-16 column within line to a byte offset.
// A column that falls inside a surrogate pair clamps to the rune start;
// columns past the end clamp to len(line).
func UTF16ToByteOffset(line string, col int) int {
	units, i := 0, 0
	for i < len(line) && units < col {
		r, size := utf8.DecodeRuneInString(line[i:])
		n := 1
		if r != utf8.RuneError || size != 1 {
			n = utf16.RuneLen(r)
		}
		if units+n > col {
			break
		}
		units += n
		i += size
	}
	return i
}

// ByteOffsetToUTF16 converts a byte offset within line to a UTF-16 column.
// An offset inside a multi-byte rune counts up to the rune start.
func ByteOffsetToUTF16(line string, offset int) int {
	offset = min(max(offset, 0), len(line))
	units := 0
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(line[i:])
		if i+size > offset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		i += size
	}
	return units
}

// Position is a zero-based LSP position.
type Position struct {
	Line      uint32
	Character uint32
}

// Index maps byte offsets of a text to LSP positions. "\n", "\r\n" and
// "\r" all end a line.
type Index struct {
	text   string
	starts []int
}

// NewIndex builds the line table for text.
func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, starts: starts}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (x *Index) LineCount() int {
	return len(x.starts)
}

// Line returns the text of the zero-based line without its terminator.
func (x *Index) Line(n int) string {
	if n < 0 || n >= len(x.starts) {
		return ""
	}
	end := len(x.text)
	if n+1 < len(x.starts) {
		end = x.starts[n+1]
	}
	line := x.text[x.starts[n]:end]
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

// Position converts a byte offset. Offsets past the end clamp to the end
// of the text.
func (x *Index) Position(offset int) Position {
	offset = min(max(offset, 0), len(x.text))
	n := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	line := x.Line(n)
	return Position{
		Line:      uint32(n),                                             //nolint:gosec // G115: bounded by text length
		Character: uint32(ByteOffsetToUTF16(line, offset-x.starts[n])), //nolint:gosec // G115: bounded by text length
	}
}

// Offset converts an LSP position back to a byte offset.
func (x *Index) Offset(p Position) int {
	n := int(p.Line)
	if n >= len(x.starts) {
		return len(x.text)
	}
	return x.starts[n] + UTF16ToByteOffset(x.Line(n), int(p.Character))
}
