package scratch_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfzen/pdfzen/internal/scratch"
)

func TestRelease(t *testing.T) {
	dir := t.TempDir()
	f, err := scratch.Create(dir, ".jpg")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := filepath.Dir(f.Path()), dir; got != want {
		t.Fatalf("unexpected directory: got %q, want %q", got, want)
	}
	if !strings.HasSuffix(f.Path(), ".jpg") {
		t.Fatalf("path %q does not end in .jpg", f.Path())
	}
	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(f.Path()); !os.IsNotExist(err) {
		t.Fatalf("Stat(%s) after Release: got %v, want not exist", f.Path(), err)
	}
	// second call is a no-op
	if err := f.Release(); err != nil {
		t.Fatal(err)
	}
}

func TestUnique(t *testing.T) {
	dir := t.TempDir()
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		f, err := scratch.Create(dir, "")
		if err != nil {
			t.Fatal(err)
		}
		defer f.Release()
		if seen[f.Path()] {
			t.Fatalf("duplicate path %s", f.Path())
		}
		seen[f.Path()] = true
	}
}

func TestDir(t *testing.T) {
	if got, want := scratch.Dir("/srv/tmp"), "/srv/tmp"; got != want {
		t.Fatalf("Dir: got %q, want %q", got, want)
	}
	if got, want := scratch.Dir(""), os.TempDir(); got != want {
		t.Fatalf("Dir(\"\"): got %q, want %q", got, want)
	}
}
