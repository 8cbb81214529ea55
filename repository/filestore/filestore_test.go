package filestore

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPut_MovesIntoPlace(t *testing.T) {
	root := t.TempDir()
	s, err := New(filepath.Join(root, "store"))
	if err != nil {
		t.Fatal(err)
	}

	src := writeTemp(t, root, "tmp1", "hello")
	final, err := s.Put("abc123", "txt", src)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be gone after Put")
	}
	b, err := os.ReadFile(final)
	if err != nil || string(b) != "hello" {
		t.Fatalf("final file content = %q, err = %v", b, err)
	}
	if !s.Exists("abc123", "txt") {
		t.Fatal("Exists should report the placed file")
	}
}

func TestPut_DiscardsDuplicate(t *testing.T) {
	root := t.TempDir()
	s, err := New(filepath.Join(root, "store"))
	if err != nil {
		t.Fatal(err)
	}

	first := writeTemp(t, root, "tmp1", "same bytes")
	p1, err := s.Put("dead", "md", first)
	if err != nil {
		t.Fatal(err)
	}

	second := writeTemp(t, root, "tmp2", "same bytes")
	p2, err := s.Put("dead", "md", second)
	if err != nil {
		t.Fatal(err)
	}

	if p1 != p2 {
		t.Fatalf("dedup should reuse the same path: %s vs %s", p1, p2)
	}
	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Fatal("duplicate source should be removed")
	}

	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("store should hold exactly one file, got %d", len(entries))
	}
}

func TestExists_Missing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if s.Exists("nope", "pdf") {
		t.Fatal("Exists reported a file that was never stored")
	}
}
