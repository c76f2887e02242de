package auth

import (
	"context"
	"strings"

	"github.com/paisatrack/paisatrack/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account. groupID, when non-nil, is the
	// group the user joins at signup. Returns the created user or an
	// error if registration fails.
	Register(ctx context.Context, username, email, credential string, groupID *string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user
	// if successful. Soft-deleted users never authenticate.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements (length, format, etc.).
	ValidateCredential(credential string) error
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address
// so the uniqueness check at signup and the lookup at login compare the
// same key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
