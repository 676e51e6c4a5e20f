package service

import (
	"archive/zip"
	"bytes"
	"testing"
)

// --- Helper to create valid archive bytes for testing ---

func createTestArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

// --- Token generation ---

func TestGenerateSecureToken(t *testing.T) {
	t.Run("generates correct length", func(t *testing.T) {
		for _, length := range []int{8, 16, 24, 32} {
			token, err := generateSecureToken(length)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(token) != length {
				t.Errorf("expected length %d, got %d", length, len(token))
			}
		}
	})

	t.Run("generates unique tokens", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := generateSecureToken(16)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen[token] {
				t.Fatalf("duplicate token generated: %s", token)
			}
			seen[token] = true
		}
	})

	t.Run("only contains URL-safe characters", func(t *testing.T) {
		token, err := generateSecureToken(100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
		for _, c := range token {
			found := false
			for _, valid := range charset {
				if c == valid {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("token contains invalid character: %c", c)
			}
		}
	})
}

// --- Archive validation ---

func TestValidateZipMagicBytes(t *testing.T) {
	t.Run("valid ZIP bytes", func(t *testing.T) {
		zipData := createTestArchive(t, map[string]string{"proj/test.txt": "hello"})
		if err := validateZipMagicBytes(zipData); err != nil {
			t.Errorf("expected valid ZIP, got error: %v", err)
		}
	})

	t.Run("empty data", func(t *testing.T) {
		if err := validateZipMagicBytes([]byte{}); err == nil {
			t.Error("expected error for empty data")
		}
	})

	t.Run("too short", func(t *testing.T) {
		if err := validateZipMagicBytes([]byte{0x50, 0x4B}); err == nil {
			t.Error("expected error for data shorter than 4 bytes")
		}
	})

	t.Run("invalid magic bytes", func(t *testing.T) {
		if err := validateZipMagicBytes([]byte{0x00, 0x01, 0x02, 0x03}); err == nil {
			t.Error("expected error for non-ZIP data")
		}
	})

	t.Run("PDF magic bytes rejected", func(t *testing.T) {
		if err := validateZipMagicBytes([]byte("%PDF")); err == nil {
			t.Error("expected error for PDF data")
		}
	})
}

// --- Label sanitization ---

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		fallback string
		expected string
	}{
		{"simple label", "my project", "proj", "my project"},
		{"trims whitespace", "  backup  ", "proj", "backup"},
		{"empty falls back to root name", "", "proj", "proj"},
		{"whitespace falls back to root name", "   ", "proj", "proj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeLabel(tt.label, tt.fallback)
			if result != tt.expected {
				t.Errorf("sanitizeLabel(%q, %q) = %q, want %q", tt.label, tt.fallback, result, tt.expected)
			}
		})
	}

	t.Run("bounds long labels", func(t *testing.T) {
		long := make([]byte, 400)
		for i := range long {
			long[i] = 'a'
		}
		result := sanitizeLabel(string(long), "proj")
		if len(result) != 255 {
			t.Errorf("expected label bounded to 255 chars, got %d", len(result))
		}
	})
}
