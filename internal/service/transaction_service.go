package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// TransactionService implements the ledger operations. Reads are scoped
// to the caller's group, mutations to the caller as creator.
type TransactionService struct {
	store storage.Store
}

// NewTransactionService creates a new TransactionService with the given
// storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

// TransactionInput carries the user-editable transaction fields.
type TransactionInput struct {
	Title       string
	Amount      float64
	Category    string
	Date        int64
	Type        models.TransactionType
	Description string
	Merchant    string
}

// ListFilter narrows and orders a listing. Zero values mean unfiltered.
type ListFilter struct {
	Type      models.TransactionType
	Category  string
	StartDate *int64
	EndDate   *int64
	Search    string
	SortBy    storage.SortKey
	SortAsc   bool
}

func validateTransactionInput(in TransactionInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalidField("title", "title is required")
	}
	// NaN compares false against everything, so check finiteness first.
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return invalidField("amount", "amount must be a positive number")
	}
	if strings.TrimSpace(in.Category) == "" {
		return invalidField("category", "category is required")
	}
	if in.Date == 0 {
		return invalidField("date", "date is required")
	}
	if !in.Type.Valid() {
		return invalidField("type", "type must be either income or expense")
	}
	return nil
}

// Add creates a transaction stamped with the caller as creator and the
// caller's group (absent for users without one).
func (s *TransactionService) Add(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	user, err := s.caller(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	tx := &models.Transaction{
		ID:          uuid.New().String(),
		GroupID:     user.GroupID,
		CreatedBy:   user.ID,
		Title:       strings.TrimSpace(in.Title),
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Date:        in.Date,
		Type:        in.Type,
		Description: in.Description,
		Merchant:    in.Merchant,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	slog.Info("Transaction added", "transaction_id", tx.ID, "user_id", user.ID, "type", tx.Type)
	return tx, nil
}

// List returns the transactions visible to the caller. Group members see
// every entry of their group; a caller without a group sees only the
// ungrouped entries they created themselves.
func (s *TransactionService) List(ctx context.Context, userID string, f ListFilter) ([]*models.Transaction, error) {
	user, err := s.caller(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter := storage.TransactionFilter{
		Type:      f.Type,
		Category:  f.Category,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Search:    f.Search,
		SortBy:    f.SortBy,
		SortAsc:   f.SortAsc,
	}
	if user.GroupID != nil {
		filter.GroupID = *user.GroupID
	} else {
		filter.SoloUserID = user.ID
	}

	return s.store.ListTransactions(ctx, filter)
}

// Update replaces the editable fields of a transaction. Only the creator
// may update; another group member gets ErrForbidden even though they can
// see the entry, since its existence is already visible to them.
func (s *TransactionService) Update(ctx context.Context, userID, id string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	if tx.CreatedBy != userID {
		return nil, ErrForbidden
	}

	tx.Title = strings.TrimSpace(in.Title)
	tx.Amount = in.Amount
	tx.Category = strings.TrimSpace(in.Category)
	tx.Date = in.Date
	tx.Type = in.Type
	tx.Description = in.Description
	tx.Merchant = in.Merchant
	tx.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	slog.Info("Transaction updated", "transaction_id", tx.ID, "user_id", userID)
	return tx, nil
}

// Delete removes a transaction created by the caller. The match is
// scoped to (id, creator) in one statement, so a row created by someone
// else is indistinguishable from a missing one.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.store.DeleteTransactionByCreator(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	slog.Info("Transaction deleted", "transaction_id", id, "user_id", userID)
	return nil
}

func (s *TransactionService) caller(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up caller: %w", err)
	}
	if user == nil || user.Deleted {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
