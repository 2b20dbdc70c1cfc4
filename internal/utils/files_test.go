package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Fatalf("content = %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
	if !FileExists(path) || FileExists(dir) {
		t.Fatalf("FileExists mismatch")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := ExpandHome("~/data/raw")
	if err != nil {
		t.Fatalf("ExpandHome: %v", err)
	}
	if got != filepath.Join(home, "data", "raw") {
		t.Fatalf("got %s", got)
	}
	got, _ = ExpandHome("rel/./dir")
	if got != filepath.Join("rel", "dir") {
		t.Fatalf("relative path not cleaned: %s", got)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("unexpected json: %s", b)
	}
}
