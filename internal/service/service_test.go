package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage/sqlite"
)

// testEnv wires the full service stack against a throwaway SQLite store.
type testEnv struct {
	store        *sqlite.SQLiteStore
	auth         *AuthService
	transactions *TransactionService
	bills        *BillService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", 7*24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		store:        store,
		auth:         NewAuthService(store, authenticator, jwtManager, logger),
		transactions: NewTransactionService(store),
		bills:        NewBillService(store),
	}
}

// signup registers a user and returns it.
func (e *testEnv) signup(t *testing.T, username, groupName string) *models.User {
	t.Helper()
	session, err := e.auth.Signup(context.Background(), SignupInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password-123",
		GroupName: groupName,
	})
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", username, err)
	}
	return session.User
}

func expenseInput(title string, amount float64) TransactionInput {
	return TransactionInput{
		Title:    title,
		Amount:   amount,
		Category: "Food",
		Date:     time.Now().Unix(),
		Type:     models.TypeExpense,
	}
}
