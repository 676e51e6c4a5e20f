package wfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a named leaf node holding an optional byte payload. The
// payload is owned exclusively by the node: Copy duplicates it, Take
// transfers it, and nothing is shared between two File values.
type File struct {
	name string
	data []byte
}

// NewFile creates an empty file node with a validated name.
func NewFile(name string) (*File, error) {
	f := &File{}
	if err := f.SetName(name); err != nil {
		return nil, err
	}
	return f, nil
}

// FileFromDisk reads the entire file at path into a new node named
// after the path's final component.
func FileFromDisk(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	f, err := NewFile(FilenameExt(path))
	if err != nil {
		return nil, err
	}
	f.data = data
	return f, nil
}

// Name returns the node's name.
func (f *File) Name() string {
	return f.name
}

// SetName renames the node after validating the new name.
func (f *File) SetName(name string) error {
	if !IsValidFilename(name) {
		return &InvalidNameError{Name: name}
	}
	f.name = name
	return nil
}

// Data returns the payload bytes. The slice is the node's own buffer;
// callers wanting an independent copy should use Copy.
func (f *File) Data() []byte {
	return f.data
}

// Size returns the payload length in bytes.
func (f *File) Size() int64 {
	return int64(len(f.data))
}

// IsEmpty reports whether the node has no payload.
func (f *File) IsEmpty() bool {
	return len(f.data) == 0
}

// Assign replaces the payload with a copy of data.
func (f *File) Assign(data []byte) {
	f.data = append([]byte(nil), data...)
}

// Append appends data to the payload, allocating it if absent.
func (f *File) Append(data []byte) {
	f.data = append(f.data, data...)
}

// AppendFile appends another file's payload to this one. The other
// file's payload is copied, not shared.
func (f *File) AppendFile(other *File) {
	f.data = append(f.data, other.data...)
}

// AppendFrom appends everything readable from r to the payload.
// Reaching end of stream is not an error.
func (f *File) AppendFrom(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}
	f.data = append(f.data, data...)
	return nil
}

// ReleaseData frees the payload. The node stays valid and empty.
func (f *File) ReleaseData() {
	f.data = nil
}

// WriteTo writes the payload to w. A node without payload writes
// nothing. Implements io.WriterTo.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	if len(f.data) == 0 {
		return 0, nil
	}
	n, err := w.Write(f.data)
	return int64(n), err
}

// WriteToDisk writes the payload to dirPath/name. When a file already
// exists there and overwrite is false, nothing happens and no error
// is reported.
func (f *File) WriteToDisk(dirPath string, overwrite bool) error {
	path := filepath.Join(dirPath, f.name)
	if !overwrite && IsFile(path) {
		return nil
	}
	if err := os.WriteFile(path, f.data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// Copy returns an independent deep copy of the node.
func (f *File) Copy() *File {
	dup := &File{name: f.name}
	if f.data != nil {
		dup.data = append([]byte(nil), f.data...)
	}
	return dup
}

// Take moves the payload into a new node with the same name, leaving
// this node valid but payload-less.
func (f *File) Take() *File {
	dup := &File{name: f.name, data: f.data}
	f.data = nil
	return dup
}
