package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// AuthService implements signup, login and account management.
type AuthService struct {
	store         storage.Store
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// SignupInput carries the signup request fields. GroupName is optional;
// when set, the user joins (or implicitly creates) that group.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	GroupName string
}

// Session is the result of a successful signup or login.
type Session struct {
	Token string
	User  *models.User
}

// ProfileUpdate carries the optional profile fields; nil means untouched.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// Signup registers a new account, resolving the optional group name to a
// group (creating it if needed) before the user row is written.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, invalidField("username", "username is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, invalidField("email", "email is required")
	}
	if in.Password == "" {
		return nil, invalidField("password", "password is required")
	}

	var groupID *string
	if name := strings.TrimSpace(in.GroupName); name != "" {
		group, err := s.store.EnsureGroup(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve group: %w", err)
		}
		groupID = &group.ID
	}

	user, err := s.authenticator.Register(ctx, in.Username, in.Email, in.Password, groupID)
	if err != nil {
		s.logger.Warn("Signup failed", "username", in.Username, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists), errors.Is(err, auth.ErrUsernameExists):
			return nil, ErrConflict
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, invalidField("password", err.Error())
		}
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return &Session{Token: token, User: user}, nil
}

// Login authenticates by email and password and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &Session{Token: token, User: user}, nil
}

// CurrentUser resolves the authenticated user and the display name of
// their group (empty string when they have none).
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, string, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	groupName := ""
	if user.GroupID != nil {
		group, err := s.store.GetGroup(ctx, *user.GroupID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve group: %w", err)
		}
		if group != nil {
			groupName = group.Name
		}
	}

	return user, groupName, nil
}

// UpdateProfile applies the present fields, leaving the rest untouched.
// A new password is re-hashed; a new email is normalized. Changed email
// or username is re-checked for conflicts among active users.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, invalidField("username", "username cannot be empty")
		}
		if username != user.Username {
			if existing, err := s.store.GetActiveUserByUsername(ctx, username); err != nil {
				return nil, err
			} else if existing != nil {
				return nil, ErrConflict
			}
			user.Username = username
		}
	}

	if in.Email != nil {
		email := auth.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, invalidField("email", "email cannot be empty")
		}
		if email != user.Email {
			if existing, err := s.store.GetActiveUserByEmail(ctx, email); err != nil {
				return nil, err
			} else if existing != nil {
				return nil, ErrConflict
			}
			user.Email = email
		}
	}

	if in.Password != nil {
		if err := s.authenticator.ValidateCredential(*in.Password); err != nil {
			return nil, invalidField("password", err.Error())
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", user.ID)
	return user, nil
}

// UpdateAvatar replaces the avatar reference.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Avatar = avatar
	user.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return user, nil
}

// DeleteAccount flips the soft-delete flag. The user's transactions and
// group membership are deliberately left in place.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.SoftDeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.logger.Info("Account soft-deleted", "user_id", user.ID)
	return nil
}

// activeUser resolves the user behind a validated token. A vanished or
// soft-deleted user means the credential no longer identifies anyone.
func (s *AuthService) activeUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.Deleted {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
