package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := WriteTempFile("puts 'hello'\n", "rb")
	if err != nil {
		t.Fatalf("WriteTempFile error: %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".rb") {
		t.Errorf("path = %q, want .rb suffix", path)
	}

	content, err := os.ReadFile(path) // #nosec G304 -- temp path we created
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(content) != "puts 'hello'\n" {
		t.Errorf("content = %q, want original content", content)
	}
}

func TestWriteTempFileCleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := WriteTempFile("x", "txt")
	if err != nil {
		t.Fatalf("WriteTempFile error: %v", err)
	}

	cleanup()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after cleanup: %v", err)
	}
}

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "valid simple", extension: "rb", wantErr: nil},
		{name: "valid with dots", extension: "tar.gz", wantErr: nil},
		{name: "empty", extension: "", wantErr: ErrExtensionEmpty},
		{name: "forward slash", extension: "a/b", wantErr: ErrExtensionPathTraversal},
		{name: "backslash", extension: `a\b`, wantErr: ErrExtensionPathTraversal},
		{name: "null byte", extension: "a\x00b", wantErr: ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "exists.otl")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true, want false for directories")
	}
	if FileExists(filepath.Join(dir, "missing.otl")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"default", false},
		{"./conf.yaml", true},
		{"../shared/conf.yaml", true},
		{"/abs/conf.yaml", true},
		{`C:\conf.yaml`, true},
		{"my-config", false},
	}

	for _, tt := range tests {
		if got := IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReplaceExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		ext  string
		want string
	}{
		{"notes.otl", ".tex", "notes.tex"},
		{"dir/notes.otl", ".tex", "dir/notes.tex"},
		{"noext", ".tex", "noext.tex"},
		{"dotted.name.otl", ".tex", "dotted.name.tex"},
	}

	for _, tt := range tests {
		if got := ReplaceExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("ReplaceExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}
