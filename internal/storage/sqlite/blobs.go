package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paisatrack/paisatrack/internal/models"
)

// PutBlob stores a blob under its content address. Identical content
// hashes to the same ID, so a conflicting insert is skipped and the
// existing copy is shared.
func (s *SQLiteStore) PutBlob(ctx context.Context, blob *models.Blob) error {
	query := `
		INSERT INTO blobs (id, owner_id, title, category, type, filename, content_type, size, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		blob.ID,
		blob.OwnerID,
		blob.Title,
		blob.Category,
		string(blob.Type),
		blob.Filename,
		blob.ContentType,
		blob.Size,
		blob.Data,
		blob.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}

	return nil
}

// GetBlob retrieves a blob with its bytes.
func (s *SQLiteStore) GetBlob(ctx context.Context, id string) (*models.Blob, error) {
	blob := &models.Blob{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, title, category, type, filename, content_type, size, data, created_at FROM blobs WHERE id = ?",
		id,
	).Scan(
		&blob.ID,
		&blob.OwnerID,
		&blob.Title,
		&blob.Category,
		&blob.Type,
		&blob.Filename,
		&blob.ContentType,
		&blob.Size,
		&blob.Data,
		&blob.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Blob not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}

	return blob, nil
}

// DeleteBlob removes a blob. Absent blobs are a no-op so deletion stays
// idempotent.
func (s *SQLiteStore) DeleteBlob(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
