package wfs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Filter decides whether an enumerated path is included in a listing.
// A nil Filter includes everything.
type Filter func(path string) bool

// Exists reports whether path refers to an existing filesystem entry.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsSymlink reports whether path itself is a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// IsEmpty reports whether path is an empty file or an empty directory.
func IsEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return false, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		return len(entries) == 0, nil
	}
	return info.Size() == 0, nil
}

// CreateDirectory creates a single directory. The parent must already
// exist. It reports whether the directory was created; an existing
// directory at path is not an error.
func CreateDirectory(path string) (bool, error) {
	if err := os.Mkdir(path, 0755); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return true, nil
}

// CreateDirectories creates a directory and any missing parents.
// It reports whether anything was created.
func CreateDirectories(path string) (bool, error) {
	if IsDirectory(path) {
		return false, nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return false, fmt.Errorf("failed to create directories %s: %w", path, err)
	}
	return true, nil
}

// DeleteFile removes a single file. It reports whether a file was
// removed; a missing file is not an error.
func DeleteFile(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return true, nil
}

// DeleteAll removes path and everything beneath it, returning the
// number of entries removed.
func DeleteAll(path string) (int, error) {
	count := 0
	err := filepath.WalkDir(path, func(_ string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return count, nil
}

// CopyFile copies a regular file. When the destination exists and
// overwrite is false the copy is silently skipped.
func CopyFile(src, dst string, overwrite bool) error {
	if !overwrite && Exists(dst) {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// CopyAll copies a file or a directory subtree. Existing destination
// files are skipped unless overwrite is set.
func CopyAll(src, dst string, overwrite bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return CopyFile(src, dst, overwrite)
	}

	if _, err := CreateDirectories(dst); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", src, err)
	}
	for _, entry := range entries {
		if err := CopyAll(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()), overwrite); err != nil {
			return err
		}
	}
	return nil
}

// Move renames a file or directory.
func Move(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return nil
}

// SetFilename renames the entry at path, keeping its extension.
func SetFilename(path, newName string) error {
	return Move(path, filepath.Join(ParentPath(path), newName+Extension(path)))
}

// SetFilenameExt renames the entry at path, replacing the whole final
// component.
func SetFilenameExt(path, newNameExt string) error {
	return Move(path, filepath.Join(ParentPath(path), newNameExt))
}

// SetExtension renames the entry at path, replacing only its extension.
func SetExtension(path, newExt string) error {
	return Move(path, filepath.Join(ParentPath(path), Filename(path)+newExt))
}

// CreateSymlink creates a symbolic link at dst pointing to src.
// src must exist.
func CreateSymlink(src, dst string) error {
	if !Exists(src) {
		return fmt.Errorf("failed to create symlink: source %s does not exist", src)
	}
	if err := os.Symlink(src, dst); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", dst, err)
	}
	return nil
}

// SymlinkTarget returns the target of the symbolic link at path.
func SymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("failed to read symlink %s: %w", path, err)
	}
	return target, nil
}

// CreateHardlink creates a hard link at dst referring to src.
func CreateHardlink(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("failed to create hardlink %s: %w", dst, err)
	}
	return nil
}

// PathSize returns the size of a file, or the total size of all
// regular files under a directory.
func PathSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	return total, nil
}

// ListFiles enumerates the regular files under path, optionally
// recursively, in whatever order the platform returns them.
func ListFiles(path string, recursive bool, filter Filter) ([]string, error) {
	files, _, err := list(path, recursive, filter)
	return files, err
}

// ListDirs enumerates the directories under path, optionally
// recursively. The path itself is not included.
func ListDirs(path string, recursive bool, filter Filter) ([]string, error) {
	_, dirs, err := list(path, recursive, filter)
	return dirs, err
}

// ListAll enumerates both files and directories under path.
func ListAll(path string, recursive bool, filter Filter) (files, dirs []string, err error) {
	return list(path, recursive, filter)
}

func list(path string, recursive bool, filter Filter) (files, dirs []string, err error) {
	if !IsDirectory(path) {
		return nil, nil, &NotDirectoryError{Path: path}
	}

	if !recursive {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		for _, entry := range entries {
			p := filepath.Join(path, entry.Name())
			if filter != nil && !filter(p) {
				continue
			}
			if entry.IsDir() {
				dirs = append(dirs, p)
			} else if entry.Type().IsRegular() {
				files = append(files, p)
			}
		}
		return files, dirs, nil
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == path {
			return nil
		}
		if filter != nil && !filter(p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		} else if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	return files, dirs, nil
}

// Absolute returns the absolute form of path.
func Absolute(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

// Relative returns path expressed relative to base.
func Relative(path, base string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against %s: %w", path, base, err)
	}
	return rel, nil
}

// IsSubPath reports whether path lies strictly beneath base,
// comparing normalized absolute paths as strings.
func IsSubPath(path, base string) bool {
	p, err := Absolute(path)
	if err != nil {
		return false
	}
	b, err := Absolute(base)
	if err != nil {
		return false
	}
	p, b = Normalize(p), Normalize(b)
	if p == b {
		return false
	}
	return strings.HasPrefix(p, strings.TrimSuffix(b, "/")+"/")
}

// SamePath reports whether two paths are lexically equal after
// normalization and resolution to absolute form.
func SamePath(a, b string) bool {
	pa, err := Absolute(a)
	if err != nil {
		return false
	}
	pb, err := Absolute(b)
	if err != nil {
		return false
	}
	return Normalize(pa) == Normalize(pb)
}

// SameEntity reports whether two paths refer to the same filesystem
// entity (e.g. through hard links or symlinks).
func SameEntity(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", a, err)
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", b, err)
	}
	return os.SameFile(ia, ib), nil
}

// TempDirectory returns the platform temporary directory.
func TempDirectory() string {
	return os.TempDir()
}
