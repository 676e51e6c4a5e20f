package wfs

import "fmt"

// InvalidNameError reports a node name that fails validation
// (empty, ".", "..", or containing a reserved path character).
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid file name %q", e.Name)
}

// NotDirectoryError reports an enumeration request against a path
// that does not exist or is not a directory.
type NotDirectoryError struct {
	Path string
}

func (e *NotDirectoryError) Error() string {
	return fmt.Sprintf("not an existing directory: %q", e.Path)
}
