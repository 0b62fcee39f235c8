package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// NewFile builds a File from already normalized content.
func NewFile(path string, content []byte, flags FileFlags) *File {
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// ReadFile reads a file from disk and normalizes CRLF/BOM.
func ReadFile(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, flags := Normalize(content)
	return NewFile(path, content, flags), nil
}

// Normalize strips a UTF-8 BOM and folds CRLF into LF.
func Normalize(content []byte) ([]byte, FileFlags) {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// Size returns the content length as uint32.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// LineCount returns the number of lines in the file (at least 1).
func (f *File) LineCount() int {
	n := len(f.LineIdx) + 1
	if len(f.LineIdx) > 0 && int(f.LineIdx[len(f.LineIdx)-1]) == len(f.Content)-1 {
		n--
	}
	return n
}

// LineStart returns the byte offset where the 1-based line begins.
func (f *File) LineStart(line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if int(line-2) < len(f.LineIdx) {
		return f.LineIdx[line-2] + 1
	}
	return f.Size()
}

// Resolve converts a byte offset into a byte based line/column.
func (f *File) Resolve(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Position returns the line and the display column of off: columns count
// runes and a tab advances to the next multiple of tabWidth (+1).
func (f *File) Position(off uint32, tabWidth int) (line, col int) {
	return displayPos(f.Content, f.LineIdx, off, tabWidth)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	size := f.Size()
	start := f.LineStart(lineNum)
	if start >= size {
		return ""
	}
	end := size
	if int(lineNum-1) < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	return string(f.Content[start:end])
}
