package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

func TestGroupVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := env.signup(t, "u1", "fam")
	u2 := env.signup(t, "u2", "fam")
	outsider := env.signup(t, "outsider", "other")

	tx, err := env.transactions.Add(ctx, u1.ID, expenseInput("Groceries", 500))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("creator sees the entry", func(t *testing.T) {
		txs, err := env.transactions.List(ctx, u1.ID, ListFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 1 || txs[0].ID != tx.ID {
			t.Fatalf("expected the created entry, got %d rows", len(txs))
		}
	})

	t.Run("another group member sees the entry", func(t *testing.T) {
		txs, err := env.transactions.List(ctx, u2.ID, ListFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 1 || txs[0].ID != tx.ID {
			t.Fatalf("group member must see the entry, got %d rows", len(txs))
		}
	})

	t.Run("a user in another group does not", func(t *testing.T) {
		txs, err := env.transactions.List(ctx, outsider.ID, ListFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 0 {
			t.Fatalf("outsider must see nothing, got %d rows", len(txs))
		}
	})
}

func TestSoloUserSeesOnlyOwnEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	solo := env.signup(t, "solo", "")
	other := env.signup(t, "othersolo", "")

	mine, err := env.transactions.Add(ctx, solo.ID, expenseInput("Coffee", 80))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := env.transactions.Add(ctx, other.ID, expenseInput("Tea", 60)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	txs, err := env.transactions.List(ctx, solo.ID, ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != mine.ID {
		t.Fatalf("solo users see only their own entries, got %d rows", len(txs))
	}
}

func TestMutationIsCreatorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := env.signup(t, "creator", "fam")
	u2 := env.signup(t, "member", "fam")

	tx, err := env.transactions.Add(ctx, u1.ID, expenseInput("Rent", 9000))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("update by another member is forbidden", func(t *testing.T) {
		_, err := env.transactions.Update(ctx, u2.ID, tx.ID, expenseInput("Hijacked", 1))
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}

		// The entry is unchanged.
		txs, err := env.transactions.List(ctx, u1.ID, ListFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 1 || txs[0].Title != "Rent" || txs[0].Amount != 9000 {
			t.Errorf("transaction mutated by non-creator: %+v", txs[0])
		}
	})

	t.Run("delete by another member reads as not found", func(t *testing.T) {
		if err := env.transactions.Delete(ctx, u2.ID, tx.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("creator can update and delete", func(t *testing.T) {
		updated, err := env.transactions.Update(ctx, u1.ID, tx.ID, expenseInput("Rent March", 9500))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Title != "Rent March" || updated.Amount != 9500 {
			t.Errorf("update not applied: %+v", updated)
		}

		if err := env.transactions.Delete(ctx, u1.ID, tx.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		txs, err := env.transactions.List(ctx, u2.ID, ListFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("deleted entry still listed for group member")
		}
	})
}

func TestAddValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, "strict", "")

	tests := []struct {
		name  string
		input TransactionInput
	}{
		{"missing title", TransactionInput{Amount: 10, Category: "Food", Date: 1, Type: models.TypeExpense}},
		{"zero amount", TransactionInput{Title: "x", Amount: 0, Category: "Food", Date: 1, Type: models.TypeExpense}},
		{"negative amount", TransactionInput{Title: "x", Amount: -5, Category: "Food", Date: 1, Type: models.TypeExpense}},
		{"NaN amount", TransactionInput{Title: "x", Amount: math.NaN(), Category: "Food", Date: 1, Type: models.TypeExpense}},
		{"infinite amount", TransactionInput{Title: "x", Amount: math.Inf(1), Category: "Food", Date: 1, Type: models.TypeExpense}},
		{"missing category", TransactionInput{Title: "x", Amount: 10, Date: 1, Type: models.TypeExpense}},
		{"missing date", TransactionInput{Title: "x", Amount: 10, Category: "Food", Type: models.TypeExpense}},
		{"bad type", TransactionInput{Title: "x", Amount: 10, Category: "Food", Date: 1, Type: "transfer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validationErr *ValidationError
			if _, err := env.transactions.Add(ctx, user.ID, tt.input); !errors.As(err, &validationErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, "filterer", "")

	add := func(title, category string, amount float64, txType models.TransactionType) {
		t.Helper()
		in := expenseInput(title, amount)
		in.Category = category
		in.Type = txType
		if _, err := env.transactions.Add(ctx, user.ID, in); err != nil {
			t.Fatalf("Add(%s) failed: %v", title, err)
		}
	}
	add("Salary", "Job", 50000, models.TypeIncome)
	add("Groceries", "Food", 700, models.TypeExpense)
	add("Dining out", "Food", 1200, models.TypeExpense)

	t.Run("by type", func(t *testing.T) {
		txs, err := env.transactions.List(ctx, user.ID, ListFilter{Type: models.TypeIncome})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 1 || txs[0].Title != "Salary" {
			t.Fatalf("type filter mismatch: %d rows", len(txs))
		}
	})

	t.Run("by category", func(t *testing.T) {
		txs, err := env.transactions.List(ctx, user.ID, ListFilter{Category: "Food"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 2 {
			t.Fatalf("category filter mismatch: %d rows", len(txs))
		}
	})

	t.Run("by search", func(t *testing.T) {
		txs, err := env.transactions.List(ctx, user.ID, ListFilter{Search: "dining"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 1 || txs[0].Title != "Dining out" {
			t.Fatalf("search mismatch: %d rows", len(txs))
		}
	})

	t.Run("sorted by amount", func(t *testing.T) {
		txs, err := env.transactions.List(ctx, user.ID, ListFilter{SortBy: storage.SortByAmount, SortAsc: true})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 3 || txs[0].Amount != 700 || txs[2].Amount != 50000 {
			t.Fatalf("sort mismatch: %+v", txs)
		}
	})
}
