// Package wfs provides path-string helpers, thin wrappers over OS
// filesystem calls, and an in-memory file/directory tree that mirrors
// a disk subtree and can be written back to disk.
package wfs

import (
	"path"
	"strings"
)

// Separator is the separator used in normalized path output.
const Separator = "/"

// invalidNameChars are the characters a node name must not contain.
const invalidNameChars = `\/:*?"<>|`

// Join concatenates path segments with the normalized separator.
// It is a pure string operation; no segment is cleaned or checked
// against the real filesystem.
func Join(parts ...string) string {
	return strings.Join(parts, Separator)
}

// Normalize collapses repeated separators and resolves "." and ".."
// segments lexically, producing forward-slash output. A trailing
// separator on the input is preserved.
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	s := strings.ReplaceAll(p, `\`, "/")
	trailing := strings.HasSuffix(s, "/")
	s = path.Clean(s)
	if trailing && s != "/" {
		s += "/"
	}
	return s
}

// ParentPath returns the path of the parent directory.
//
//	"a/b/file.ext" -> "a/b"
//	"a/b/"         -> "a/b"
//	"a/b"          -> "a"
//	"file.ext"     -> ""
func ParentPath(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	if trimmed := strings.TrimRight(s, "/"); trimmed != s {
		// A trailing separator means the last component is empty,
		// so the parent is the path without the separator.
		return trimmed
	}
	i := strings.LastIndex(s, "/")
	if i < 0 {
		return ""
	}
	if i == 0 {
		return "/"
	}
	return s[:i]
}

// ParentName returns the name of the parent directory, e.g.
// "a/b/file.ext" -> "b".
func ParentName(p string) string {
	return FilenameExt(ParentPath(p))
}

// FilenameExt returns the final path component including its extension.
//
//	"a/b/file.ext" -> "file.ext"
//	"a/b/"         -> ""
//	"a/b"          -> "b"
//	".ext"         -> ".ext"
func FilenameExt(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	if strings.HasSuffix(s, "/") {
		return ""
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Filename returns the final path component without its extension.
// A leading-dot name like ".ext" has no extension and is returned whole.
func Filename(p string) string {
	base := FilenameExt(p)
	return strings.TrimSuffix(base, Extension(p))
}

// Extension returns the extension of the final path component,
// including the leading dot. Names without a dot, and names whose
// only dot is the first character, have no extension.
func Extension(p string) string {
	base := FilenameExt(p)
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return ""
	}
	return base[i:]
}

// IsValidFilename reports whether name is usable as a single file or
// directory name: non-empty, not "." or "..", and free of the
// reserved characters \/:*?"<>|.
func IsValidFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, invalidNameChars)
}
