// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/paisatrack/paisatrack/internal/models"
)

// SortKey names a transaction listing sort column. Anything outside this
// set falls back to SortByDate.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByAmount   SortKey = "amount"
	SortByTitle    SortKey = "title"
	SortByCategory SortKey = "category"
)

// TransactionFilter narrows and orders a transaction listing. Exactly one
// of GroupID / SoloUserID is set by the service layer: GroupID scopes the
// listing to a whole group, SoloUserID to ungrouped rows created by that
// user.
type TransactionFilter struct {
	GroupID    string
	SoloUserID string

	// Optional narrowing; zero values mean "no constraint".
	Type     models.TransactionType
	Category string
	// Inclusive Unix-timestamp bounds on the transaction date.
	StartDate *int64
	EndDate   *int64
	// Case-insensitive substring match on the title.
	Search string

	SortBy  SortKey
	SortAsc bool
}

// Store defines the interface for all persistence operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID regardless of the soft-delete
	// flag. Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetActiveUserByEmail retrieves a non-deleted user by normalized
	// email. Returns (nil, nil) when no active user matches.
	GetActiveUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetActiveUserByUsername retrieves a non-deleted user by username.
	// Returns (nil, nil) when no active user matches.
	GetActiveUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUser overwrites the mutable user columns (username, email,
	// password hash, avatar, group) for the given user ID.
	UpdateUser(ctx context.Context, user *models.User) error

	// SoftDeleteUser flips the soft-delete flag. The row itself is
	// retained so transaction creator references stay resolvable.
	SoftDeleteUser(ctx context.Context, id string) error

	// EnsureGroup returns the group with the given name, creating it if
	// absent. Concurrent callers racing on a new name all receive the
	// same group.
	EnsureGroup(ctx context.Context, name string) (*models.Group, error)

	// GetGroup retrieves a group by ID. Returns (nil, nil) when absent.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// CreateTransaction persists a new transaction.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by ID. Returns (nil, nil)
	// when absent.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListTransactions returns transactions matching the filter scope,
	// ordered per the filter (default: date descending).
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)

	// UpdateTransaction overwrites the mutable columns of the given
	// transaction ID, including the attachment columns.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransactionByCreator deletes the transaction only when it
	// was created by userID. Reports whether a row was deleted.
	DeleteTransactionByCreator(ctx context.Context, id, userID string) (bool, error)

	// ListBillTransactions returns transactions created by userID that
	// carry an attachment, newest date first.
	ListBillTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)

	// GetTransactionByFileID retrieves the transaction created by userID
	// whose attachment references fileID. Returns (nil, nil) when no
	// such transaction exists, even if the blob itself does.
	GetTransactionByFileID(ctx context.Context, fileID, userID string) (*models.Transaction, error)

	// CountAttachmentRefs reports how many transactions reference fileID.
	CountAttachmentRefs(ctx context.Context, fileID string) (int, error)

	// ClearAttachment removes the attachment columns from a transaction,
	// keeping the row.
	ClearAttachment(ctx context.Context, transactionID string) error

	// PutBlob stores a blob under its content address. Storing content
	// that already exists is a no-op.
	PutBlob(ctx context.Context, blob *models.Blob) error

	// GetBlob retrieves a blob with its bytes. Returns (nil, nil) when
	// absent.
	GetBlob(ctx context.Context, id string) (*models.Blob, error)

	// DeleteBlob removes a blob. Deleting an absent blob is a no-op.
	DeleteBlob(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
