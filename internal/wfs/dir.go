package wfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a named internal node owning an ordered collection of child
// files and an ordered collection of child directories, each unique
// by name within its kind. A file and a subdirectory may share a
// name; the two collections are separate namespaces.
//
// Child slices stay nil until first insertion and are never exposed
// for direct mutation; insertion order is preserved and determines
// disk-write order within each kind.
type Dir struct {
	name  string
	files []*File
	dirs  []*Dir
}

// NewDir creates an empty directory node with a validated name.
func NewDir(name string) (*Dir, error) {
	d := &Dir{}
	if err := d.SetName(name); err != nil {
		return nil, err
	}
	return d, nil
}

// DirFromDisk recursively builds a tree mirroring the directory at
// path: immediate subdirectories first, then immediate files, in
// whatever order the platform enumerates them. The snapshot is taken
// at construction time; the tree does not track later disk changes.
func DirFromDisk(path string) (*Dir, error) {
	root, err := NewDir(FilenameExt(strings.TrimRight(path, `/\`)))
	if err != nil {
		return nil, err
	}

	dirs, err := ListDirs(path, false, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range dirs {
		child, err := DirFromDisk(p)
		if err != nil {
			return nil, err
		}
		root.AddDir(child, false)
	}

	files, err := ListFiles(path, false, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range files {
		child, err := FileFromDisk(p)
		if err != nil {
			return nil, err
		}
		root.AddFile(child, false)
	}

	return root, nil
}

// Name returns the node's name.
func (d *Dir) Name() string {
	return d.name
}

// SetName renames the node after validating the new name.
func (d *Dir) SetName(name string) error {
	if !IsValidFilename(name) {
		return &InvalidNameError{Name: name}
	}
	d.name = name
	return nil
}

// Size returns the total payload bytes across all descendant files.
func (d *Dir) Size() int64 {
	var total int64
	for _, f := range d.files {
		total += f.Size()
	}
	for _, sub := range d.dirs {
		total += sub.Size()
	}
	return total
}

// FileCount returns the number of child files, including descendants
// when recursive is set.
func (d *Dir) FileCount(recursive bool) int {
	count := len(d.files)
	if recursive {
		for _, sub := range d.dirs {
			count += sub.FileCount(true)
		}
	}
	return count
}

// DirCount returns the number of child directories, including
// descendants when recursive is set. A directory does not count
// itself in its own total.
func (d *Dir) DirCount(recursive bool) int {
	count := len(d.dirs)
	if recursive {
		for _, sub := range d.dirs {
			count += sub.DirCount(true)
		}
	}
	return count
}

// Count returns FileCount plus DirCount.
func (d *Dir) Count(recursive bool) int {
	return d.FileCount(recursive) + d.DirCount(recursive)
}

// IsEmpty reports whether the subtree holds no payload bytes.
func (d *Dir) IsEmpty() bool {
	return d.Size() == 0
}

// HasFile reports whether a child file with the given name exists,
// searching depth-first through descendants when recursive is set.
func (d *Dir) HasFile(name string, recursive bool) bool {
	if d.indexOfFile(name) >= 0 {
		return true
	}
	if recursive {
		for _, sub := range d.dirs {
			if sub.HasFile(name, true) {
				return true
			}
		}
	}
	return false
}

// HasDir reports whether a child directory with the given name
// exists, searching depth-first through descendants when recursive
// is set.
func (d *Dir) HasDir(name string, recursive bool) bool {
	if d.indexOfDir(name) >= 0 {
		return true
	}
	if recursive {
		for _, sub := range d.dirs {
			if sub.HasDir(name, true) {
				return true
			}
		}
	}
	return false
}

// File returns the child file with the given name, creating and
// inserting an empty one when absent. This is the idiomatic way to
// build a tree incrementally:
//
//	root.Dir("src").File("a.txt").Assign([]byte("hi"))
//
// An invalid name returns nil.
func (d *Dir) File(name string) *File {
	if i := d.indexOfFile(name); i >= 0 {
		return d.files[i]
	}
	f, err := NewFile(name)
	if err != nil {
		return nil
	}
	d.files = append(d.files, f)
	return f
}

// Dir returns the child directory with the given name, creating and
// inserting an empty one when absent. An invalid name returns nil.
func (d *Dir) Dir(name string) *Dir {
	if i := d.indexOfDir(name); i >= 0 {
		return d.dirs[i]
	}
	sub, err := NewDir(name)
	if err != nil {
		return nil
	}
	d.dirs = append(d.dirs, sub)
	return sub
}

// Files returns the child files in insertion order.
func (d *Dir) Files() []*File {
	return d.files
}

// Dirs returns the child directories in insertion order.
func (d *Dir) Dirs() []*Dir {
	return d.dirs
}

// AddFile inserts f, taking ownership of it. When a child file with
// the same name exists it is replaced only if overwrite is set;
// otherwise the call is a no-op. Either way the caller must not use
// f afterwards.
func (d *Dir) AddFile(f *File, overwrite bool) {
	if f == nil {
		return
	}
	if i := d.indexOfFile(f.name); i >= 0 {
		if overwrite {
			d.files[i] = f
		}
		return
	}
	d.files = append(d.files, f)
}

// AddDir inserts sub, taking ownership of it, with the same
// overwrite semantics as AddFile.
func (d *Dir) AddDir(sub *Dir, overwrite bool) {
	if sub == nil {
		return
	}
	if i := d.indexOfDir(sub.name); i >= 0 {
		if overwrite {
			d.dirs[i] = sub
		}
		return
	}
	d.dirs = append(d.dirs, sub)
}

// RemoveFile drops the child file with the given name. Absence is
// not an error.
func (d *Dir) RemoveFile(name string) {
	if i := d.indexOfFile(name); i >= 0 {
		d.files = append(d.files[:i], d.files[i+1:]...)
	}
}

// RemoveDir drops the child directory with the given name. Absence
// is not an error.
func (d *Dir) RemoveDir(name string) {
	if i := d.indexOfDir(name); i >= 0 {
		d.dirs = append(d.dirs[:i], d.dirs[i+1:]...)
	}
}

// ReleaseAllData frees every descendant file's payload without
// removing any node, preserving tree shape and names.
func (d *Dir) ReleaseAllData() {
	for _, f := range d.files {
		f.ReleaseData()
	}
	for _, sub := range d.dirs {
		sub.ReleaseAllData()
	}
}

// ClearFiles drops this node's child files (non-recursive).
func (d *Dir) ClearFiles() {
	d.files = nil
}

// ClearDirs drops this node's child directories (non-recursive).
func (d *Dir) ClearDirs() {
	d.dirs = nil
}

// Clear drops both child collections of this node.
func (d *Dir) Clear() {
	d.ClearFiles()
	d.ClearDirs()
}

// WriteToDisk materializes the subtree under parentPath: creates
// parentPath/name (an existing directory there is fine), writes all
// child files into it, then recurses into child directories with the
// same overwrite flag. Files are written before subdirectories;
// sibling order within each kind follows the in-memory collections.
func (d *Dir) WriteToDisk(parentPath string, overwrite bool) error {
	root := filepath.Join(parentPath, d.name)
	if err := os.Mkdir(root, 0755); err != nil && !os.IsExist(err) {
		return fmt.Errorf("failed to create directory %s: %w", root, err)
	}

	for _, f := range d.files {
		if err := f.WriteToDisk(root, overwrite); err != nil {
			return err
		}
	}
	for _, sub := range d.dirs {
		if err := sub.WriteToDisk(root, overwrite); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns an independent deep copy of the subtree.
func (d *Dir) Copy() *Dir {
	dup := &Dir{name: d.name}
	if d.files != nil {
		dup.files = make([]*File, 0, len(d.files))
		for _, f := range d.files {
			dup.files = append(dup.files, f.Copy())
		}
	}
	if d.dirs != nil {
		dup.dirs = make([]*Dir, 0, len(d.dirs))
		for _, sub := range d.dirs {
			dup.dirs = append(dup.dirs, sub.Copy())
		}
	}
	return dup
}

// Take moves both child collections into a new node with the same
// name, leaving this node valid but childless.
func (d *Dir) Take() *Dir {
	dup := &Dir{name: d.name, files: d.files, dirs: d.dirs}
	d.files = nil
	d.dirs = nil
	return dup
}

func (d *Dir) indexOfFile(name string) int {
	for i, f := range d.files {
		if f.name == name {
			return i
		}
	}
	return -1
}

func (d *Dir) indexOfDir(name string) int {
	for i, sub := range d.dirs {
		if sub.name == name {
			return i
		}
	}
	return -1
}
