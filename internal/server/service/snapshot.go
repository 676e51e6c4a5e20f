package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"wfs/internal/archive"
	"wfs/internal/server/config"
	"wfs/internal/server/database"
	"wfs/internal/server/storage"

	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors for the service layer.
var (
	ErrNotFound         = errors.New("snapshot not found")
	ErrExpired          = errors.New("snapshot has expired")
	ErrPasswordRequired = errors.New("password required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidToken     = errors.New("invalid deletion token")
	ErrTooLarge         = errors.New("snapshot exceeds maximum allowed size")
	ErrInvalidArchive   = errors.New("invalid or corrupt snapshot archive")
)

// SnapshotResult is returned after a successful snapshot upload.
type SnapshotResult struct {
	ID           string    `json:"id"`
	RestoreURL   string    `json:"restore_url"`
	DeleteToken  string    `json:"delete_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Label        string    `json:"label"`
	FileCount    int       `json:"file_count"`
	DirCount     int       `json:"dir_count"`
	PayloadBytes int64     `json:"payload_bytes"`
	ArchiveBytes int64     `json:"archive_bytes"`
}

// SnapshotInfo is returned for metadata queries.
type SnapshotInfo struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	FileCount    int       `json:"file_count"`
	DirCount     int       `json:"dir_count"`
	PayloadBytes int64     `json:"payload_bytes"`
	ArchiveBytes int64     `json:"archive_bytes"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	RestoreCount int       `json:"restore_count"`
	HasPassword  bool      `json:"has_password"`
}

// SnapshotService contains the business logic for directory snapshots.
type SnapshotService struct {
	repo  *database.Repository
	store storage.Store
	cfg   *config.Config
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(repo *database.Repository, store storage.Store, cfg *config.Config) *SnapshotService {
	return &SnapshotService{
		repo:  repo,
		store: store,
		cfg:   cfg,
	}
}

// CreateSnapshot handles an incoming snapshot archive:
// rebuilds the tree to validate the archive and measure it, computes its hash,
// stores the archive on disk, and creates the DB record.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, label string, data io.Reader, size int64, password string) (*SnapshotResult, error) {
	// 1. Check size limit
	if size > s.cfg.MaxSnapshotSize {
		return nil, ErrTooLarge
	}

	// 2. Generate unique ID and deletion token
	snapshotID, err := generateSecureToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot ID: %w", err)
	}

	deleteToken, err := generateSecureToken(24)
	if err != nil {
		return nil, fmt.Errorf("failed to generate deletion token: %w", err)
	}
	deleteToken = "del_" + deleteToken

	// 3. Read data into buffer while computing SHA-256 hash.
	//    We need the full bytes to rebuild the tree anyway.
	hasher := sha256.New()
	tee := io.TeeReader(data, hasher)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, tee); err != nil {
		return nil, fmt.Errorf("failed to read snapshot data: %w", err)
	}

	archiveHash := hex.EncodeToString(hasher.Sum(nil))
	archiveData := buf.Bytes()

	// 4. Validate ZIP magic bytes
	if err := validateZipMagicBytes(archiveData); err != nil {
		return nil, err
	}

	// 5. Rebuild the tree from the archive. This both validates the
	//    archive and gives us the tree metrics for the record.
	root, err := archive.Unpack(archiveData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	fileCount := root.FileCount(true)
	dirCount := root.DirCount(true)
	payloadBytes := root.Size()

	// 6. Check for duplicate hash (log only, don't block)
	existing, _ := s.repo.GetByHash(ctx, archiveHash)
	if existing != nil {
		slog.Info("duplicate archive detected",
			"new_snapshot", snapshotID,
			"existing_snapshot", existing.ID,
			"hash", archiveHash,
		)
	}

	// 7. Store archive on disk
	storedBytes, err := s.store.Save(snapshotID, bytes.NewReader(archiveData))
	if err != nil {
		return nil, fmt.Errorf("failed to store archive: %w", err)
	}

	// 8. Hash password if provided
	var passwordHash *string
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			// Clean up stored archive
			s.store.Delete(snapshotID)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	// 9. Create database record
	now := time.Now().UTC()
	snap := &database.Snapshot{
		ID:           snapshotID,
		Label:        sanitizeLabel(label, root.Name()),
		FileCount:    fileCount,
		DirCount:     dirCount,
		PayloadBytes: payloadBytes,
		ArchiveBytes: storedBytes,
		ArchiveHash:  archiveHash,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.DefaultExpiry),
		RestoreCount: 0,
		PasswordHash: passwordHash,
		DeleteToken:  deleteToken,
	}

	if err := s.repo.Create(ctx, snap); err != nil {
		// Clean up stored archive on DB failure
		s.store.Delete(snapshotID)
		return nil, fmt.Errorf("failed to create snapshot record: %w", err)
	}

	slog.Info("snapshot created",
		"id", snapshotID,
		"label", snap.Label,
		"files", fileCount,
		"dirs", dirCount,
		"payload_bytes", payloadBytes,
		"archive_bytes", storedBytes,
		"hash", archiveHash,
	)

	return &SnapshotResult{
		ID:           snapshotID,
		RestoreURL:   fmt.Sprintf("%s/s/%s", s.cfg.BaseURL, snapshotID),
		DeleteToken:  deleteToken,
		ExpiresAt:    snap.ExpiresAt,
		Label:        snap.Label,
		FileCount:    fileCount,
		DirCount:     dirCount,
		PayloadBytes: payloadBytes,
		ArchiveBytes: storedBytes,
	}, nil
}

// GetInfo returns metadata about a snapshot without serving the archive.
func (s *SnapshotService) GetInfo(ctx context.Context, id string) (*SnapshotInfo, error) {
	snap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrSnapshotNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if time.Now().After(snap.ExpiresAt) {
		return nil, ErrExpired
	}

	return &SnapshotInfo{
		ID:           snap.ID,
		Label:        snap.Label,
		FileCount:    snap.FileCount,
		DirCount:     snap.DirCount,
		PayloadBytes: snap.PayloadBytes,
		ArchiveBytes: snap.ArchiveBytes,
		CreatedAt:    snap.CreatedAt,
		ExpiresAt:    snap.ExpiresAt,
		RestoreCount: snap.RestoreCount,
		HasPassword:  snap.PasswordHash != nil,
	}, nil
}

// Restore validates the password (if required), increments the restore count,
// and returns the path to the archive on disk.
func (s *SnapshotService) Restore(ctx context.Context, id string, password string) (archivePath string, label string, err error) {
	snap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrSnapshotNotFound) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}

	if time.Now().After(snap.ExpiresAt) {
		return "", "", ErrExpired
	}

	// Check password if the snapshot is password-protected
	if snap.PasswordHash != nil {
		if password == "" {
			return "", "", ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*snap.PasswordHash), []byte(password)); err != nil {
			return "", "", ErrInvalidPassword
		}
	}

	// Get the archive path from storage
	path, err := s.store.GetPath(id)
	if err != nil {
		return "", "", fmt.Errorf("archive not found on disk: %w", err)
	}

	// Increment restore count (best-effort, don't fail the restore)
	if err := s.repo.IncrementRestoreCount(ctx, id); err != nil {
		slog.Error("failed to increment restore count", "id", id, "error", err)
	}

	return path, snap.Label, nil
}

// DeleteSnapshot validates the deletion token and removes the snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string, token string) error {
	snap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrSnapshotNotFound) {
			return ErrNotFound
		}
		return err
	}

	if snap.DeleteToken != token {
		return ErrInvalidToken
	}

	// Delete archive from storage
	if err := s.store.Delete(id); err != nil {
		slog.Error("failed to delete archive from storage", "id", id, "error", err)
		// Continue with DB deletion even if archive deletion fails
	}

	// Delete record from database
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete snapshot record: %w", err)
	}

	slog.Info("snapshot deleted", "id", id, "label", snap.Label)
	return nil
}

// GetStats returns aggregate server statistics.
func (s *SnapshotService) GetStats(ctx context.Context) (*database.Stats, error) {
	return s.repo.GetStats(ctx)
}

// --- Helpers ---

// generateSecureToken produces a cryptographically secure, URL-safe random string.
func generateSecureToken(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("crypto/rand failure: %w", err)
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

// validateZipMagicBytes checks that data starts with the ZIP magic number (PK\x03\x04).
func validateZipMagicBytes(data []byte) error {
	if len(data) < 4 {
		return ErrInvalidArchive
	}
	// Standard ZIP local file header: PK\x03\x04
	// Empty ZIP (end of central directory): PK\x05\x06
	if data[0] == 0x50 && data[1] == 0x4B {
		if (data[2] == 0x03 && data[3] == 0x04) || // local file header
			(data[2] == 0x05 && data[3] == 0x06) { // empty archive
			return nil
		}
	}
	return ErrInvalidArchive
}

// sanitizeLabel trims and bounds a user-supplied label, falling back to the
// archive's root directory name when the label is empty.
func sanitizeLabel(label, fallback string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = fallback
	}
	if len(label) > 255 {
		label = label[:255]
	}
	return label
}
