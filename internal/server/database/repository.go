package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

const snapshotColumns = `id, label, file_count, dir_count, payload_bytes,
	archive_bytes, archive_hash, created_at, expires_at, restore_count,
	password_hash, delete_token`

// Repository provides CRUD operations for snapshots.
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func scanSnapshot(row pgx.Row) (*Snapshot, error) {
	s := &Snapshot{}
	err := row.Scan(
		&s.ID,
		&s.Label,
		&s.FileCount,
		&s.DirCount,
		&s.PayloadBytes,
		&s.ArchiveBytes,
		&s.ArchiveHash,
		&s.CreatedAt,
		&s.ExpiresAt,
		&s.RestoreCount,
		&s.PasswordHash,
		&s.DeleteToken,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new snapshot record.
func (r *Repository) Create(ctx context.Context, s *Snapshot) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO snapshots (
			id, label, file_count, dir_count, payload_bytes,
			archive_bytes, archive_hash, created_at, expires_at,
			restore_count, password_hash, delete_token
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		s.ID,
		s.Label,
		s.FileCount,
		s.DirCount,
		s.PayloadBytes,
		s.ArchiveBytes,
		s.ArchiveHash,
		s.CreatedAt,
		s.ExpiresAt,
		s.RestoreCount,
		s.PasswordHash,
		s.DeleteToken,
	)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	return nil
}

// GetByID retrieves a snapshot by its ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Snapshot, error) {
	row := r.db.Pool.QueryRow(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots WHERE id = $1", id)
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return s, nil
}

// IncrementRestoreCount atomically increments the restore counter.
func (r *Repository) IncrementRestoreCount(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		"UPDATE snapshots SET restore_count = restore_count + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to increment restore count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// Delete removes a snapshot record by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, "DELETE FROM snapshots WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// GetExpired returns all snapshots whose expiration time has passed.
func (r *Repository) GetExpired(ctx context.Context) ([]*Snapshot, error) {
	rows, err := r.db.Pool.Query(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots WHERE expires_at < NOW()")
	if err != nil {
		return nil, fmt.Errorf("failed to query expired snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// GetByHash finds an active snapshot with a matching archive hash
// (for deduplication checks).
func (r *Repository) GetByHash(ctx context.Context, hash string) (*Snapshot, error) {
	row := r.db.Pool.QueryRow(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots WHERE archive_hash = $1 AND expires_at > NOW() LIMIT 1",
		hash)
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No duplicate found (not an error)
		}
		return nil, fmt.Errorf("failed to query by hash: %w", err)
	}
	return s, nil
}

// GetStats returns aggregate server statistics.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE expires_at > NOW()),
			COALESCE(SUM(restore_count), 0),
			COALESCE(SUM(archive_bytes) FILTER (WHERE expires_at > NOW()), 0)
		FROM snapshots
	`).Scan(
		&stats.TotalSnapshots,
		&stats.ActiveSnapshots,
		&stats.TotalRestores,
		&stats.StorageUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}
