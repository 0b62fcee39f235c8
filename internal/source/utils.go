package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF folds \r\n into \n; a lone \r stays, the tokenizers treat
// it as whitespace.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, utf8BOM)
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, offset32(i))
		}
	}
	return out
}

// lineOf returns the 0-based line holding off and the offset it starts at.
// A '\n' belongs to the line it terminates.
func lineOf(lineIdx []uint32, off uint32) (int, uint32) {
	line, _ := slices.BinarySearch(lineIdx, off)
	if line == 0 {
		return 0, 0
	}
	return line, lineIdx[line-1] + 1
}

// toLineCol converts off into a byte based position.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line, start := lineOf(lineIdx, off)
	return LineCol{Line: offset32(line + 1), Col: off - start + 1}
}

// displayPos converts off into the line and the column a user sees: runes
// count once and tabs advance to the next tab stop.
func displayPos(content []byte, lineIdx []uint32, off uint32, tabWidth int) (line, col int) {
	line, start := lineOf(lineIdx, off)
	return line + 1, DisplayColumn(content[start:off], 1, tabWidth)
}

// DisplayColumn advances col across text, expanding tabs to tabWidth stops.
// text must not contain newlines.
func DisplayColumn(text []byte, col, tabWidth int) int {
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]
		if r == '\t' && tabWidth > 0 {
			col += tabWidth - (col-1)%tabWidth
			continue
		}
		col++
	}
	return col
}

func offset32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
