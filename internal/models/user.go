package models

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the display handle, unique among active users.
	Username string `json:"username"`

	// Email is the login address, unique among active users.
	// Always stored trimmed and lower-cased.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// Avatar is an optional image reference (URL or data URI).
	Avatar string `json:"avatar,omitempty"`

	// GroupID references the group the user belongs to, nil if none.
	GroupID *string `json:"groupId,omitempty"`

	// Deleted is the soft-delete flag. Deleted users cannot log in and
	// do not count toward the username/email uniqueness checks.
	Deleted bool `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64 `json:"updatedAt"`
}
