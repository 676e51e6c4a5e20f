package wfs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Helpers

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file %s: %v", name, err)
	}
	return path
}

func mkTestDir(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create test directory %s: %v", name, err)
	}
	return path
}

// Tests

func TestExistenceChecks(t *testing.T) {
	tmp := t.TempDir()
	file := writeTestFile(t, tmp, "f.txt", "data")
	dir := mkTestDir(t, tmp, "sub")

	t.Run("file", func(t *testing.T) {
		if !Exists(file) || !IsFile(file) || IsDirectory(file) {
			t.Error("expected an existing regular file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if !Exists(dir) || !IsDirectory(dir) || IsFile(dir) {
			t.Error("expected an existing directory")
		}
	})

	t.Run("missing", func(t *testing.T) {
		missing := filepath.Join(tmp, "nope")
		if Exists(missing) || IsFile(missing) || IsDirectory(missing) {
			t.Error("expected nothing at missing path")
		}
	})
}

func TestIsEmpty(t *testing.T) {
	tmp := t.TempDir()

	t.Run("empty file", func(t *testing.T) {
		path := writeTestFile(t, tmp, "empty.txt", "")
		empty, err := IsEmpty(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !empty {
			t.Error("expected empty file")
		}
	})

	t.Run("non-empty directory", func(t *testing.T) {
		dir := mkTestDir(t, tmp, "filled")
		writeTestFile(t, dir, "x.txt", "x")
		empty, err := IsEmpty(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if empty {
			t.Error("expected non-empty directory")
		}
	})

	t.Run("missing path is an error", func(t *testing.T) {
		if _, err := IsEmpty(filepath.Join(tmp, "nope")); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

func TestCreateDirectory(t *testing.T) {
	t.Run("creates and reports", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "newdir")
		created, err := CreateDirectory(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !created {
			t.Error("expected created=true")
		}
		if !IsDirectory(path) {
			t.Error("directory not on disk")
		}
	})

	t.Run("existing directory is not an error", func(t *testing.T) {
		path := t.TempDir()
		created, err := CreateDirectory(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created {
			t.Error("expected created=false for existing directory")
		}
	})

	t.Run("missing parent is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b")
		if _, err := CreateDirectory(path); err == nil {
			t.Error("expected error when parent is missing")
		}
		if _, err := CreateDirectories(path); err != nil {
			t.Errorf("CreateDirectories should create parents, got: %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("delete file", func(t *testing.T) {
		tmp := t.TempDir()
		path := writeTestFile(t, tmp, "f.txt", "x")

		deleted, err := DeleteFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted || Exists(path) {
			t.Error("expected file to be deleted")
		}

		deleted, err = DeleteFile(path)
		if err != nil {
			t.Fatalf("unexpected error on second delete: %v", err)
		}
		if deleted {
			t.Error("expected deleted=false for missing file")
		}
	})

	t.Run("delete all counts entries", func(t *testing.T) {
		tmp := t.TempDir()
		root := mkTestDir(t, tmp, "root")
		sub := mkTestDir(t, root, "sub")
		writeTestFile(t, root, "a.txt", "a")
		writeTestFile(t, sub, "b.txt", "b")

		// root, sub, a.txt, b.txt
		count, err := DeleteAll(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 4 {
			t.Errorf("expected 4 entries removed, got %d", count)
		}
		if Exists(root) {
			t.Error("expected root to be gone")
		}
	})

	t.Run("delete all on missing path", func(t *testing.T) {
		count, err := DeleteAll(filepath.Join(t.TempDir(), "nope"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0, got %d", count)
		}
	})
}

func TestCopyFile(t *testing.T) {
	t.Run("copies content", func(t *testing.T) {
		tmp := t.TempDir()
		src := writeTestFile(t, tmp, "src.txt", "payload")
		dst := filepath.Join(tmp, "dst.txt")

		if err := CopyFile(src, dst, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, _ := os.ReadFile(dst)
		if string(content) != "payload" {
			t.Errorf("expected 'payload', got %q", content)
		}
	})

	t.Run("skips existing destination without overwrite", func(t *testing.T) {
		tmp := t.TempDir()
		src := writeTestFile(t, tmp, "src.txt", "new")
		dst := writeTestFile(t, tmp, "dst.txt", "old")

		if err := CopyFile(src, dst, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, _ := os.ReadFile(dst)
		if string(content) != "old" {
			t.Errorf("expected destination untouched, got %q", content)
		}

		if err := CopyFile(src, dst, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, _ = os.ReadFile(dst)
		if string(content) != "new" {
			t.Errorf("expected destination replaced, got %q", content)
		}
	})
}

func TestCopyAll(t *testing.T) {
	tmp := t.TempDir()
	src := mkTestDir(t, tmp, "src")
	sub := mkTestDir(t, src, "sub")
	writeTestFile(t, src, "a.txt", "a")
	writeTestFile(t, sub, "b.txt", "b")

	dst := filepath.Join(tmp, "dst")
	if err := CopyAll(src, dst, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rel := range []string{"a.txt", filepath.Join("sub", "b.txt")} {
		if !IsFile(filepath.Join(dst, rel)) {
			t.Errorf("expected %s in copy", rel)
		}
	}
}

func TestMoveAndRename(t *testing.T) {
	t.Run("move", func(t *testing.T) {
		tmp := t.TempDir()
		src := writeTestFile(t, tmp, "src.txt", "x")
		dst := filepath.Join(tmp, "moved.txt")

		if err := Move(src, dst); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if Exists(src) || !IsFile(dst) {
			t.Error("expected file to be moved")
		}
	})

	t.Run("set filename keeps extension", func(t *testing.T) {
		tmp := t.TempDir()
		path := writeTestFile(t, tmp, "old.txt", "x")

		if err := SetFilename(path, "new"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !IsFile(filepath.Join(tmp, "new.txt")) {
			t.Error("expected new.txt")
		}
	})

	t.Run("set extension keeps stem", func(t *testing.T) {
		tmp := t.TempDir()
		path := writeTestFile(t, tmp, "report.txt", "x")

		if err := SetExtension(path, ".md"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !IsFile(filepath.Join(tmp, "report.md")) {
			t.Error("expected report.md")
		}
	})
}

func TestLinks(t *testing.T) {
	t.Run("symlink round trip", func(t *testing.T) {
		tmp := t.TempDir()
		src := writeTestFile(t, tmp, "target.txt", "x")
		link := filepath.Join(tmp, "link.txt")

		if err := CreateSymlink(src, link); err != nil {
			t.Skipf("symlinks not supported here: %v", err)
		}
		if !IsSymlink(link) {
			t.Error("expected a symlink")
		}
		target, err := SymlinkTarget(link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if target != src {
			t.Errorf("expected target %s, got %s", src, target)
		}
	})

	t.Run("symlink to missing source is an error", func(t *testing.T) {
		tmp := t.TempDir()
		if err := CreateSymlink(filepath.Join(tmp, "nope"), filepath.Join(tmp, "l")); err == nil {
			t.Error("expected error for missing source")
		}
	})

	t.Run("hardlink is the same entity", func(t *testing.T) {
		tmp := t.TempDir()
		src := writeTestFile(t, tmp, "target.txt", "x")
		link := filepath.Join(tmp, "hard.txt")

		if err := CreateHardlink(src, link); err != nil {
			t.Skipf("hardlinks not supported here: %v", err)
		}
		same, err := SameEntity(src, link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !same {
			t.Error("expected hardlink to be the same entity")
		}
	})
}

func TestPathSize(t *testing.T) {
	tmp := t.TempDir()
	root := mkTestDir(t, tmp, "root")
	sub := mkTestDir(t, root, "sub")
	writeTestFile(t, root, "a.txt", "12345")
	writeTestFile(t, sub, "b.txt", "123")

	t.Run("file", func(t *testing.T) {
		size, err := PathSize(filepath.Join(root, "a.txt"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if size != 5 {
			t.Errorf("expected 5, got %d", size)
		}
	})

	t.Run("directory sums recursively", func(t *testing.T) {
		size, err := PathSize(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if size != 8 {
			t.Errorf("expected 8, got %d", size)
		}
	})

	t.Run("missing path is an error", func(t *testing.T) {
		if _, err := PathSize(filepath.Join(tmp, "nope")); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

func TestListing(t *testing.T) {
	tmp := t.TempDir()
	root := mkTestDir(t, tmp, "root")
	sub := mkTestDir(t, root, "sub")
	writeTestFile(t, root, "a.txt", "a")
	writeTestFile(t, root, "b.log", "b")
	writeTestFile(t, sub, "c.txt", "c")

	t.Run("non-recursive", func(t *testing.T) {
		files, dirs, err := ListAll(root, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 2 {
			t.Errorf("expected 2 files, got %d", len(files))
		}
		if len(dirs) != 1 {
			t.Errorf("expected 1 dir, got %d", len(dirs))
		}
	})

	t.Run("recursive", func(t *testing.T) {
		files, err := ListFiles(root, true, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 3 {
			t.Errorf("expected 3 files, got %d", len(files))
		}
	})

	t.Run("filter", func(t *testing.T) {
		txtOnly := func(p string) bool { return strings.HasSuffix(p, ".txt") }
		files, err := ListFiles(root, false, txtOnly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 1 || filepath.Base(files[0]) != "a.txt" {
			t.Errorf("expected only a.txt, got %v", files)
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		_, err := ListFiles(filepath.Join(root, "a.txt"), false, nil)
		var notDir *NotDirectoryError
		if !errors.As(err, &notDir) {
			t.Fatalf("expected NotDirectoryError, got %v", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := ListDirs(filepath.Join(tmp, "nope"), false, nil)
		var notDir *NotDirectoryError
		if !errors.As(err, &notDir) {
			t.Fatalf("expected NotDirectoryError, got %v", err)
		}
	})
}

func TestPathComparisons(t *testing.T) {
	tmp := t.TempDir()
	sub := mkTestDir(t, tmp, "sub")

	t.Run("sub path", func(t *testing.T) {
		if !IsSubPath(sub, tmp) {
			t.Error("expected sub to be a sub path")
		}
		if IsSubPath(tmp, tmp) {
			t.Error("a path is not its own sub path")
		}
		if IsSubPath(tmp, sub) {
			t.Error("parent is not a sub path of child")
		}
	})

	t.Run("same path", func(t *testing.T) {
		messy := filepath.Join(tmp, ".", "sub", "..", "sub")
		if !SamePath(sub, messy) {
			t.Errorf("expected %s and %s to compare equal", sub, messy)
		}
	})
}
