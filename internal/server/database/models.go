package database

import "time"

// Snapshot represents a stored tree snapshot in the database.
type Snapshot struct {
	ID           string
	Label        string
	FileCount    int
	DirCount     int
	PayloadBytes int64
	ArchiveBytes int64
	ArchiveHash  string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	RestoreCount int
	PasswordHash *string // nil when no password set
	DeleteToken  string
}

// Stats holds aggregate server statistics.
type Stats struct {
	TotalSnapshots  int64
	ActiveSnapshots int64
	TotalRestores   int64
	StorageUsed     int64
}
