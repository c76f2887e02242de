package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/models"
)

// EnsureGroup returns the group with the given name, creating it when it
// does not exist yet. groups.name is UNIQUE, so two signups racing on the
// same new name cannot create duplicates: the loser's INSERT conflicts,
// is ignored, and the follow-up read returns the winner's row.
func (s *SQLiteStore) EnsureGroup(ctx context.Context, name string) (*models.Group, error) {
	group, err := s.getGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if group != nil {
		return group, nil
	}

	candidate := &models.Group{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING",
		candidate.ID, candidate.Name, candidate.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// Re-read instead of returning candidate: on conflict the stored row
	// is the one the concurrent signup inserted.
	group, err = s.getGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %q missing after insert", name)
	}
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ?",
		id,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

func (s *SQLiteStore) getGroupByName(ctx context.Context, name string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE name = ?",
		name,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by name: %w", err)
	}
	return group, nil
}
