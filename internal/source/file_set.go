package source

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// FileSet keeps every file loaded during a run so reports can quote
// source lines. It is safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// Add registers f, assigns its ID and returns it.
// A later file with the same path shadows the earlier one in lookups.
func (fileSet *FileSet) Add(f *File) FileID {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	f.ID = FileID(n)
	fileSet.files = append(fileSet.files, f)
	fileSet.index[f.Path] = f.ID
	return f.ID
}

// Load reads a file from disk and registers it.
func (fileSet *FileSet) Load(path string) (*File, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	fileSet.Add(f)
	return f, nil
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) *File {
	content, flags := Normalize(content)
	f := NewFile(name, content, flags|FileVirtual)
	fileSet.Add(f)
	return f
}

// Get returns the file for id.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return fileSet.files[id]
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return fileSet.files[id], true
	}
	return nil, false
}

// Len returns the number of registered files.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}
