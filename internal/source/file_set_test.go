package source

import (
	"sync"
	"testing"
)

func TestFileSetShadowsByPath(t *testing.T) {
	fs := NewFileSet()

	f1 := fs.AddVirtual("test.php", []byte("hello world"))
	if f1.ID != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", f1.ID)
	}
	f2 := fs.AddVirtual("test.php", []byte("hello universe"))
	if f2.ID != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", f2.ID)
	}

	got, ok := fs.GetByPath("test.php")
	if !ok {
		t.Fatal("Expected file to exist after Add")
	}
	if got != f2 {
		t.Errorf("Expected latest file, got id %d", got.ID)
	}
	// старый файл всё ещё доступен по ID
	if string(fs.Get(f1.ID).Content) != "hello world" {
		t.Errorf("Expected first file content to be kept")
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.AddVirtual("a.php", []byte("a\nb\n"))

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 2 {
		t.Errorf("Expected 2 lines, got %d", file.LineCount())
	}
}

// TestCRLFNormalization проверяет нормализацию CRLF
func TestCRLFNormalization(t *testing.T) {
	normalized, flags := Normalize([]byte("a\r\nb\r\n"))
	if string(normalized) != "a\nb\n" {
		t.Errorf("Expected normalized content, got %q", string(normalized))
	}
	if flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}

	// одиночный \r не трогаем
	kept, changed := normalizeCRLF([]byte("a\rb"))
	if changed || string(kept) != "a\rb" {
		t.Errorf("Expected lone CR to be kept, got %q", string(kept))
	}
}

// TestBOMRemoval проверяет удаление BOM
func TestBOMRemoval(t *testing.T) {
	content, flags := Normalize([]byte{0xEF, 0xBB, 0xBF, 'x', '\n'})
	if string(content) != "x\n" {
		t.Errorf("Expected content without BOM, got %q", string(content))
	}
	if flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
}

func TestResolveUTF8(t *testing.T) {
	f := NewFile("test.php", []byte("α\nb"), 0)

	if got := f.Resolve(1); got != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("Expected 1:2, got %+v", got)
	}
	if got := f.Resolve(3); got != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("Expected 2:1, got %+v", got)
	}
	// колонка в рунах: после α идёт вторая колонка
	line, col := f.Position(2, 4)
	if line != 1 || col != 2 {
		t.Errorf("Expected display 1:2, got %d:%d", line, col)
	}
}

func TestPositionExpandsTabs(t *testing.T) {
	f := NewFile("t.php", []byte("\tx\n  \ty"), 0)

	if _, col := f.Position(1, 4); col != 5 {
		t.Errorf("Expected column 5 after one tab, got %d", col)
	}
	if _, col := f.Position(6, 4); col != 5 {
		t.Errorf("Expected column 5 after spaces+tab, got %d", col)
	}
	if _, col := f.Position(1, 0); col != 2 {
		t.Errorf("Expected raw column 2 when tabs are not expanded, got %d", col)
	}
}

func TestGetLine(t *testing.T) {
	f := NewFile("t.php", []byte("one\ntwo\nthree"), 0)
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFileSetConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fs.AddVirtual("f.php", []byte("x"))
		}()
	}
	wg.Wait()
	if fs.Len() != 32 {
		t.Fatalf("Expected 32 files, got %d", fs.Len())
	}
}
