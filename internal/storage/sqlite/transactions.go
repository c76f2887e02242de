package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

const transactionColumns = `id, group_id, created_by, title, amount, category, date, type,
	description, merchant, bill_file_id, bill_filename, bill_file_type, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var groupID, billFileID, billFilename, billFileType sql.NullString
	err := row.Scan(
		&tx.ID,
		&groupID,
		&tx.CreatedBy,
		&tx.Title,
		&tx.Amount,
		&tx.Category,
		&tx.Date,
		&tx.Type,
		&tx.Description,
		&tx.Merchant,
		&billFileID,
		&billFilename,
		&billFileType,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		tx.GroupID = &groupID.String
	}
	if billFileID.Valid && billFileID.String != "" {
		tx.Bill = &models.Attachment{
			FileID:   billFileID.String,
			Filename: billFilename.String,
			FileType: models.FileType(billFileType.String),
		}
	}
	return tx, nil
}

// billArgs flattens an optional attachment into the three bill columns.
func billArgs(tx *models.Transaction) (fileID, filename, fileType any) {
	if tx.Bill == nil {
		return nil, nil, nil
	}
	return tx.Bill.FileID, tx.Bill.Filename, string(tx.Bill.FileType)
}

// CreateTransaction persists a new transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	fileID, filename, fileType := billArgs(tx)
	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.GroupID,
		tx.CreatedBy,
		tx.Title,
		tx.Amount,
		tx.Category,
		tx.Date,
		string(tx.Type),
		tx.Description,
		tx.Merchant,
		fileID,
		filename,
		fileType,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE id = ?"

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Transaction not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions returns transactions matching the filter, built as a
// WHERE clause assembled from the set filter fields.
func (s *SQLiteStore) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE 1=1"
	args := []any{}

	// Scope: a whole group, or a solo user's ungrouped rows.
	switch {
	case filter.GroupID != "":
		query += " AND group_id = ?"
		args = append(args, filter.GroupID)
	case filter.SoloUserID != "":
		query += " AND created_by = ? AND group_id IS NULL"
		args = append(args, filter.SoloUserID)
	default:
		return nil, fmt.Errorf("transaction filter requires a group or solo-user scope")
	}

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Search != "" {
		query += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query += " ORDER BY " + sortColumn(filter.SortBy)
	if filter.SortAsc {
		query += " ASC"
	} else {
		query += " DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// sortColumn maps a sort key to a column name. The whitelist keeps
// user-supplied sort keys out of the SQL text.
func sortColumn(key storage.SortKey) string {
	switch key {
	case storage.SortByAmount:
		return "amount"
	case storage.SortByTitle:
		return "title"
	case storage.SortByCategory:
		return "category"
	default:
		return "date"
	}
}

func collectTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// UpdateTransaction overwrites the mutable columns of the transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions
		SET title = ?, amount = ?, category = ?, date = ?, type = ?,
		    description = ?, merchant = ?,
		    bill_file_id = ?, bill_filename = ?, bill_file_type = ?,
		    updated_at = ?
		WHERE id = ?
	`

	fileID, filename, fileType := billArgs(tx)
	_, err := s.db.ExecContext(ctx, query,
		tx.Title,
		tx.Amount,
		tx.Category,
		tx.Date,
		string(tx.Type),
		tx.Description,
		tx.Merchant,
		fileID,
		filename,
		fileType,
		tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

// DeleteTransactionByCreator deletes the transaction only when created by
// userID, reporting whether a row matched.
func (s *SQLiteStore) DeleteTransactionByCreator(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND created_by = ?",
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// ListBillTransactions returns the caller's transactions that carry an
// attachment, newest date first.
func (s *SQLiteStore) ListBillTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + ` FROM transactions
		WHERE created_by = ? AND bill_file_id IS NOT NULL AND bill_file_id != ''
		ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bill transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// GetTransactionByFileID retrieves the caller-owned transaction whose
// attachment references fileID.
func (s *SQLiteStore) GetTransactionByFileID(ctx context.Context, fileID, userID string) (*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE bill_file_id = ? AND created_by = ?"

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, fileID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by file ID: %w", err)
	}

	return tx, nil
}

// CountAttachmentRefs reports how many transactions reference fileID.
// Content-addressed blobs dedupe identical uploads, so a blob may be
// shared by several transactions and must only be deleted at zero refs.
func (s *SQLiteStore) CountAttachmentRefs(ctx context.Context, fileID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE bill_file_id = ?",
		fileID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attachment refs: %w", err)
	}
	return n, nil
}

// ClearAttachment removes the attachment columns, keeping the row.
func (s *SQLiteStore) ClearAttachment(ctx context.Context, transactionID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET bill_file_id = NULL, bill_filename = NULL, bill_file_type = NULL WHERE id = ?",
		transactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear attachment: %w", err)
	}
	return nil
}
