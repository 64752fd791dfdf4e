package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`
pragma_defines: [debug, posix]
include_roots: ["./lib", "./vendor/stck-lib"]
`), "stck.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.PragmaDefines) != 2 || m.PragmaDefines[0] != "debug" || m.PragmaDefines[1] != "posix" {
		t.Errorf("pragma_defines = %v", m.PragmaDefines)
	}
	if len(m.IncludeRoots) != 2 || m.IncludeRoots[0] != "./lib" {
		t.Errorf("include_roots = %v", m.IncludeRoots)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("pragma_defines: {not: a list"), "stck.yaml"); err == nil {
		t.Error("malformed manifest parsed without error")
	}
}

func TestLoadMissingIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("missing manifest must not error: %v", err)
	}
	if len(m.PragmaDefines) != 0 || len(m.IncludeRoots) != 0 {
		t.Errorf("missing manifest not empty: %+v", m)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("pragma_defines: [ci]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.PragmaDefines) != 1 || m.PragmaDefines[0] != "ci" {
		t.Errorf("pragma_defines = %v", m.PragmaDefines)
	}
}
