package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *SQLiteStore, username string, groupID *string) *models.User {
	t.Helper()
	now := time.Now().Unix()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		GroupID:      groupID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func newTestTransaction(t *testing.T, store *SQLiteStore, creator string, groupID *string, title string, amount float64) *models.Transaction {
	t.Helper()
	now := time.Now().Unix()
	tx := &models.Transaction{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		CreatedBy: creator,
		Title:     title,
		Amount:    amount,
		Category:  "Food",
		Date:      now,
		Type:      models.TypeExpense,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	return tx
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create and retrieve", func(t *testing.T) {
		user := newTestUser(t, store, "alice", nil)

		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got == nil || got.Username != "alice" {
			t.Fatalf("expected alice, got %+v", got)
		}
		if got.GroupID != nil {
			t.Errorf("expected no group, got %v", *got.GroupID)
		}
	})

	t.Run("active lookups skip soft-deleted users", func(t *testing.T) {
		user := newTestUser(t, store, "bob", nil)

		if err := store.SoftDeleteUser(ctx, user.ID); err != nil {
			t.Fatalf("SoftDeleteUser failed: %v", err)
		}

		got, err := store.GetActiveUserByEmail(ctx, user.Email)
		if err != nil {
			t.Fatalf("GetActiveUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected deleted user to be absent, got %+v", got)
		}

		got, err = store.GetActiveUserByUsername(ctx, "bob")
		if err != nil {
			t.Fatalf("GetActiveUserByUsername failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected deleted user to be absent, got %+v", got)
		}

		// The row itself survives for creator references.
		got, err = store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got == nil || !got.Deleted {
			t.Errorf("expected soft-deleted row to remain, got %+v", got)
		}
	})

	t.Run("soft-deleted email can be reused", func(t *testing.T) {
		first := newTestUser(t, store, "carla", nil)
		if err := store.SoftDeleteUser(ctx, first.ID); err != nil {
			t.Fatalf("SoftDeleteUser failed: %v", err)
		}

		// Same email and username again: the partial unique index only
		// covers active rows.
		second := newTestUser(t, store, "carla", nil)
		got, err := store.GetActiveUserByEmail(ctx, second.Email)
		if err != nil {
			t.Fatalf("GetActiveUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != second.ID {
			t.Fatalf("expected the new account, got %+v", got)
		}
	})

	t.Run("duplicate active email is rejected", func(t *testing.T) {
		newTestUser(t, store, "dan", nil)

		dup := &models.User{
			ID:           uuid.New().String(),
			Username:     "dan2",
			Email:        "dan@example.com",
			PasswordHash: "x",
			CreatedAt:    time.Now().Unix(),
			UpdatedAt:    time.Now().Unix(),
		}
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected unique constraint error for duplicate active email")
		}
	})

	t.Run("update overwrites mutable columns", func(t *testing.T) {
		user := newTestUser(t, store, "erin", nil)
		user.Username = "erin2"
		user.Avatar = "http://example.com/a.png"
		user.UpdatedAt = time.Now().Unix()

		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}

		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Username != "erin2" || got.Avatar != "http://example.com/a.png" {
			t.Errorf("update not applied: %+v", got)
		}
	})
}

func TestEnsureGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.EnsureGroup(ctx, "family")
	if err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}
	if first.ID == "" || first.Name != "family" {
		t.Fatalf("unexpected group: %+v", first)
	}

	second, err := store.EnsureGroup(ctx, "family")
	if err != nil {
		t.Fatalf("EnsureGroup (existing) failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("EnsureGroup created a duplicate: %s vs %s", second.ID, first.ID)
	}

	other, err := store.EnsureGroup(ctx, "flatmates")
	if err != nil {
		t.Fatalf("EnsureGroup (new) failed: %v", err)
	}
	if other.ID == first.ID {
		t.Error("distinct names must yield distinct groups")
	}

	got, err := store.GetGroup(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got == nil || got.Name != "family" {
		t.Errorf("GetGroup mismatch: %+v", got)
	}
}

func TestListTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, err := store.EnsureGroup(ctx, "household")
	if err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}
	u1 := newTestUser(t, store, "u1", &group.ID)
	u2 := newTestUser(t, store, "u2", &group.ID)
	solo := newTestUser(t, store, "solo", nil)

	newTestTransaction(t, store, u1.ID, &group.ID, "Groceries", 500)
	newTestTransaction(t, store, u2.ID, &group.ID, "Petrol", 1200)
	soloTx := newTestTransaction(t, store, solo.ID, nil, "Coffee", 80)

	t.Run("group scope includes every member's entries", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{GroupID: group.ID})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 2 {
			t.Fatalf("expected 2 group transactions, got %d", len(txs))
		}
	})

	t.Run("solo scope only matches ungrouped rows of the user", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{SoloUserID: solo.ID})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 || txs[0].ID != soloTx.ID {
			t.Fatalf("expected only the solo transaction, got %d rows", len(txs))
		}
	})

	t.Run("case-insensitive title search", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{
			GroupID: group.ID,
			Search:  "GROC",
		})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 || txs[0].Title != "Groceries" {
			t.Fatalf("search mismatch: %d rows", len(txs))
		}
	})

	t.Run("sort by amount ascending", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{
			GroupID: group.ID,
			SortBy:  storage.SortByAmount,
			SortAsc: true,
		})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 2 || txs[0].Amount != 500 || txs[1].Amount != 1200 {
			t.Fatalf("unexpected sort order: %+v", txs)
		}
	})

	t.Run("date range bounds are inclusive", func(t *testing.T) {
		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).Unix()
		tx := newTestTransaction(t, store, u1.ID, &group.ID, "Rent", 9000)
		tx.Date = day
		tx.UpdatedAt = time.Now().Unix()
		if err := store.UpdateTransaction(ctx, tx); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}

		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{
			GroupID:   group.ID,
			StartDate: &day,
			EndDate:   &day,
		})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 || txs[0].ID != tx.ID {
			t.Fatalf("expected exactly the boundary row, got %d", len(txs))
		}
	})

	t.Run("unscoped filter is rejected", func(t *testing.T) {
		if _, err := store.ListTransactions(ctx, storage.TransactionFilter{}); err == nil {
			t.Error("expected error for a filter without scope")
		}
	})
}

func TestDeleteTransactionByCreator(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u1 := newTestUser(t, store, "owner", nil)
	u2 := newTestUser(t, store, "other", nil)
	tx := newTestTransaction(t, store, u1.ID, nil, "Lunch", 250)

	deleted, err := store.DeleteTransactionByCreator(ctx, tx.ID, u2.ID)
	if err != nil {
		t.Fatalf("DeleteTransactionByCreator failed: %v", err)
	}
	if deleted {
		t.Fatal("non-creator must not delete the transaction")
	}

	deleted, err = store.DeleteTransactionByCreator(ctx, tx.ID, u1.ID)
	if err != nil {
		t.Fatalf("DeleteTransactionByCreator failed: %v", err)
	}
	if !deleted {
		t.Fatal("creator delete should succeed")
	}

	got, err := store.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got != nil {
		t.Error("transaction still present after delete")
	}
}

func TestAttachmentsAndBlobs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, store, "uploader", nil)
	stranger := newTestUser(t, store, "stranger", nil)

	blob := &models.Blob{
		ID:          "a1b2c3",
		OwnerID:     user.ID,
		Filename:    "rent.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Data:        []byte("%PDF"),
		CreatedAt:   time.Now().Unix(),
	}
	if err := store.PutBlob(ctx, blob); err != nil {
		t.Fatalf("PutBlob failed: %v", err)
	}

	t.Run("putting identical content twice is a no-op", func(t *testing.T) {
		again := *blob
		again.OwnerID = stranger.ID
		if err := store.PutBlob(ctx, &again); err != nil {
			t.Fatalf("PutBlob (dup) failed: %v", err)
		}
		got, err := store.GetBlob(ctx, blob.ID)
		if err != nil {
			t.Fatalf("GetBlob failed: %v", err)
		}
		if got.OwnerID != user.ID {
			t.Errorf("duplicate insert overwrote the original owner: %s", got.OwnerID)
		}
	})

	tx := newTestTransaction(t, store, user.ID, nil, "Rent", 9000)
	tx.Bill = &models.Attachment{FileID: blob.ID, Filename: "rent.pdf", FileType: models.FilePDF}
	tx.UpdatedAt = time.Now().Unix()
	if err := store.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	t.Run("bill listing returns only attachment-bearing rows", func(t *testing.T) {
		newTestTransaction(t, store, user.ID, nil, "No bill", 100)

		txs, err := store.ListBillTransactions(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListBillTransactions failed: %v", err)
		}
		if len(txs) != 1 || txs[0].ID != tx.ID {
			t.Fatalf("expected 1 bill transaction, got %d", len(txs))
		}
		if txs[0].Bill == nil || txs[0].Bill.FileID != blob.ID {
			t.Fatalf("attachment not round-tripped: %+v", txs[0].Bill)
		}
	})

	t.Run("file lookup is ownership-scoped", func(t *testing.T) {
		got, err := store.GetTransactionByFileID(ctx, blob.ID, user.ID)
		if err != nil {
			t.Fatalf("GetTransactionByFileID failed: %v", err)
		}
		if got == nil || got.ID != tx.ID {
			t.Fatalf("expected the owning transaction, got %+v", got)
		}

		got, err = store.GetTransactionByFileID(ctx, blob.ID, stranger.ID)
		if err != nil {
			t.Fatalf("GetTransactionByFileID failed: %v", err)
		}
		if got != nil {
			t.Error("stranger must not resolve the file")
		}
	})

	t.Run("clear attachment keeps the row", func(t *testing.T) {
		refs, err := store.CountAttachmentRefs(ctx, blob.ID)
		if err != nil {
			t.Fatalf("CountAttachmentRefs failed: %v", err)
		}
		if refs != 1 {
			t.Fatalf("expected 1 ref, got %d", refs)
		}

		if err := store.ClearAttachment(ctx, tx.ID); err != nil {
			t.Fatalf("ClearAttachment failed: %v", err)
		}

		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got == nil {
			t.Fatal("transaction row must survive attachment removal")
		}
		if got.Bill != nil {
			t.Errorf("attachment not cleared: %+v", got.Bill)
		}

		refs, err = store.CountAttachmentRefs(ctx, blob.ID)
		if err != nil {
			t.Fatalf("CountAttachmentRefs failed: %v", err)
		}
		if refs != 0 {
			t.Errorf("expected 0 refs after clear, got %d", refs)
		}
	})

	t.Run("delete blob is idempotent", func(t *testing.T) {
		if err := store.DeleteBlob(ctx, blob.ID); err != nil {
			t.Fatalf("DeleteBlob failed: %v", err)
		}
		got, err := store.GetBlob(ctx, blob.ID)
		if err != nil {
			t.Fatalf("GetBlob failed: %v", err)
		}
		if got != nil {
			t.Error("blob still present after delete")
		}
		if err := store.DeleteBlob(ctx, blob.ID); err != nil {
			t.Errorf("second DeleteBlob errored: %v", err)
		}
	})
}
