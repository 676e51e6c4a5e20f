package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store defines the interface for snapshot archive storage backends.
// This allows swapping the filesystem for S3 or other backends later.
type Store interface {
	Save(snapshotID string, data io.Reader) (int64, error)
	GetPath(snapshotID string) (string, error)
	Delete(snapshotID string) error
	EnsureDir() error
}

// FileSystemStore keeps snapshot archives on the local filesystem.
type FileSystemStore struct {
	basePath string
}

// NewFileSystemStore creates a new filesystem storage backend.
func NewFileSystemStore(basePath string) *FileSystemStore {
	return &FileSystemStore{basePath: basePath}
}

// EnsureDir creates the storage directory if it doesn't exist.
func (fs *FileSystemStore) EnsureDir() error {
	if err := os.MkdirAll(fs.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", fs.basePath, err)
	}
	return nil
}

// Save writes an archive from a reader to a file named {snapshotID}.zip.
// Returns the number of bytes written.
func (fs *FileSystemStore) Save(snapshotID string, data io.Reader) (int64, error) {
	archivePath := fs.archivePath(snapshotID)

	file, err := os.Create(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", archivePath, err)
	}
	defer file.Close()

	n, err := io.Copy(file, data)
	if err != nil {
		// Clean up partial file on error
		os.Remove(archivePath)
		return 0, fmt.Errorf("failed to write archive: %w", err)
	}

	return n, nil
}

// GetPath returns the absolute path to a stored snapshot archive.
// Returns an error if the archive does not exist.
func (fs *FileSystemStore) GetPath(snapshotID string) (string, error) {
	archivePath := fs.archivePath(snapshotID)

	if _, err := os.Stat(archivePath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("archive not found for snapshot %s", snapshotID)
		}
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	return archivePath, nil
}

// Delete removes the stored archive for a snapshot.
func (fs *FileSystemStore) Delete(snapshotID string) error {
	archivePath := fs.archivePath(snapshotID)
	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete archive %s: %w", archivePath, err)
	}
	return nil
}

func (fs *FileSystemStore) archivePath(snapshotID string) string {
	return filepath.Join(fs.basePath, snapshotID+".zip")
}
