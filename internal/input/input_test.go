package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partman.conf")
	if err := os.WriteFile(path, []byte("Grid 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		arg      string
		stdin    string
		wantName string
		wantText string
	}{
		{path, "", path, "Grid 1 2 3\n"},
		{"@" + path, "", path, "Grid 1 2 3\n"},
		{"-", "SetServer Development\n", StdinName, "SetServer Development\n"},
	}
	for _, tt := range tests {
		name, text, err := ReadSource(tt.arg, strings.NewReader(tt.stdin))
		if err != nil {
			t.Errorf("ReadSource(%q): %v", tt.arg, err)
			continue
		}
		if name != tt.wantName || text != tt.wantText {
			t.Errorf("ReadSource(%q) = %q, %q; want %q, %q", tt.arg, name, text, tt.wantName, tt.wantText)
		}
	}
}

func TestReadSourceErrors(t *testing.T) {
	if _, _, err := ReadSource("@", nil); err == nil {
		t.Error("expected error for empty path")
	}
	_, _, err := ReadSource(filepath.Join(t.TempDir(), "missing"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
