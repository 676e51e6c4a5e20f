package wfs

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"repeated separators", "a////b///c.txt", "a/b/c.txt"},
		{"backslashes", `a\\b\c.txt`, "a/b/c.txt"},
		{"dot segments", "a/./b/../c", "a/c"},
		{"trailing separator kept", "a/b/", "a/b/"},
		{"no trailing separator", "a/b", "a/b"},
		{"empty", "", ""},
		{"root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"file in directory", "a/b/file.ext", "a/b"},
		{"trailing separator", "a/b/", "a/b"},
		{"directory", "a/b", "a"},
		{"bare filename", "file.ext", ""},
		{"under root", "/file.ext", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParentPath(tt.input); got != tt.expected {
				t.Errorf("ParentPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParentName(t *testing.T) {
	if got := ParentName("a/b/file.ext"); got != "b" {
		t.Errorf("expected %q, got %q", "b", got)
	}
	if got := ParentName("file.ext"); got != "" {
		t.Errorf("expected empty parent name, got %q", got)
	}
}

func TestFilenameComponents(t *testing.T) {
	tests := []struct {
		input       string
		filenameExt string
		filename    string
		extension   string
	}{
		{"a/b/file.ext", "file.ext", "file", ".ext"},
		{"a/b/", "", "", ""},
		{"a/b", "b", "b", ""},
		{"file.ext", "file.ext", "file", ".ext"},
		{".ext", ".ext", ".ext", ""},
		{"archive.tar.gz", "archive.tar.gz", "archive.tar", ".gz"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FilenameExt(tt.input); got != tt.filenameExt {
				t.Errorf("FilenameExt(%q) = %q, want %q", tt.input, got, tt.filenameExt)
			}
			if got := Filename(tt.input); got != tt.filename {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.filename)
			}
			if got := Extension(tt.input); got != tt.extension {
				t.Errorf("Extension(%q) = %q, want %q", tt.input, got, tt.extension)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join("a", "b", "c.txt"); got != "a/b/c.txt" {
		t.Errorf("expected %q, got %q", "a/b/c.txt", got)
	}
}

func TestIsValidFilename(t *testing.T) {
	t.Run("valid names", func(t *testing.T) {
		for _, name := range []string{"file.ext", "a", ".hidden", "with space", "udiaeresis-ü"} {
			if !IsValidFilename(name) {
				t.Errorf("expected %q to be valid", name)
			}
		}
	})

	t.Run("invalid names", func(t *testing.T) {
		invalid := []string{
			"", ".", "..",
			`back\slash`, "fwd/slash", "co:lon", "st*ar",
			"quest?ion", `qu"ote`, "l<t", "g>t", "pi|pe",
		}
		for _, name := range invalid {
			if IsValidFilename(name) {
				t.Errorf("expected %q to be invalid", name)
			}
		}
	})
}
