// Package archive converts in-memory file trees to and from zip
// archives, the wire form used by the snapshot server and CLI.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"wfs/internal/wfs"
)

var (
	ErrEmptyArchive = errors.New("archive contains no entries")
	ErrUnsafePath   = errors.New("archive entry has an unsafe path")
)

// Pack serializes the tree into a zip archive. Entry paths are
// relative to the tree's parent, so the root directory's name is the
// first segment of every entry. Files are written before
// subdirectories, matching disk-write order; empty directories get an
// explicit directory entry so the tree shape survives the round trip.
func Pack(root *wfs.Dir) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := packDir(zw, root, ""); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func packDir(zw *zip.Writer, d *wfs.Dir, base string) error {
	prefix := path.Join(base, d.Name())

	if d.Count(false) == 0 {
		if _, err := zw.Create(prefix + "/"); err != nil {
			return fmt.Errorf("failed to create archive entry %s/: %w", prefix, err)
		}
		return nil
	}

	for _, f := range d.Files() {
		entry := path.Join(prefix, f.Name())
		w, err := zw.Create(entry)
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", entry, err)
		}
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", entry, err)
		}
	}
	for _, sub := range d.Dirs() {
		if err := packDir(zw, sub, prefix); err != nil {
			return err
		}
	}
	return nil
}

// Unpack rebuilds a tree from a zip archive. When every entry lives
// under a single top-level directory, that directory becomes the
// root; otherwise the entries are placed under a root named
// "archive". Entries with absolute, dot-dot, or otherwise invalid
// path segments are rejected.
func Unpack(data []byte) (*wfs.Dir, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, ErrEmptyArchive
	}

	type entry struct {
		segments []string
		file     *zip.File
		isDir    bool
	}

	entries := make([]entry, 0, len(zr.File))
	rootName := ""
	singleRoot := true
	for _, f := range zr.File {
		isDir := strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
		segments, err := splitEntryPath(f.Name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{segments: segments, file: f, isDir: isDir})

		if rootName == "" {
			rootName = segments[0]
		} else if segments[0] != rootName {
			singleRoot = false
		}
		if len(segments) == 1 && !isDir {
			// A top-level file cannot be the root directory.
			singleRoot = false
		}
	}

	var root *wfs.Dir
	if singleRoot {
		root, err = wfs.NewDir(rootName)
	} else {
		root, err = wfs.NewDir("archive")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsafePath, rootName)
	}

	for _, e := range entries {
		segments := e.segments
		if singleRoot {
			segments = segments[1:]
			if len(segments) == 0 {
				continue // the root directory entry itself
			}
		}

		parent := root
		for _, seg := range segments[:len(segments)-1] {
			parent = parent.Dir(seg)
		}

		last := segments[len(segments)-1]
		if e.isDir {
			parent.Dir(last)
			continue
		}

		rc, err := e.file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", e.file.Name, err)
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry %s: %w", e.file.Name, err)
		}
		parent.File(last).Assign(payload)
	}

	return root, nil
}

// splitEntryPath validates an archive entry path and splits it into
// name segments. Every segment must pass node name validation, which
// rules out "..", empty segments, and reserved characters (zip-slip
// guard).
func splitEntryPath(name string) ([]string, error) {
	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "../") {
		return nil, fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	segments := strings.Split(clean, "/")
	for _, seg := range segments {
		if !wfs.IsValidFilename(seg) {
			return nil, fmt.Errorf("%w: %q", ErrUnsafePath, name)
		}
	}
	return segments, nil
}
