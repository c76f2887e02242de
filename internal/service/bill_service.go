package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// MaxBillSize is the upload size limit for bill files (2 MiB).
const MaxBillSize = 2 << 20

// BillService implements the bill attachment lifecycle: multipart upload,
// content-addressed retrieval, and deletion tied to a transaction row.
type BillService struct {
	store storage.Store
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// BillUploadInput carries the transaction fields and the file of a bill
// upload. Unlike plain transactions, description and merchant are
// mandatory here so the stored bill is self-describing.
type BillUploadInput struct {
	TransactionInput
	Filename    string
	ContentType string
	Data        []byte
}

// fileTypeFor maps an accepted media type to the attachment file kind.
func fileTypeFor(contentType string) (models.FileType, bool) {
	switch contentType {
	case "application/pdf":
		return models.FilePDF, true
	case "image/jpeg", "image/jpg":
		return models.FileJPG, true
	}
	return "", false
}

// Upload validates the bill, stores the file, then creates a transaction
// referencing it. The blob is written first: if the transaction insert
// fails afterwards, the orphaned blob is an accepted, manually-cleanable
// leak rather than a reason for two-phase commit machinery.
func (s *BillService) Upload(ctx context.Context, userID string, in BillUploadInput) (*models.Transaction, error) {
	if err := validateTransactionInput(in.TransactionInput); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalidField("description", "description is required")
	}
	if strings.TrimSpace(in.Merchant) == "" {
		return nil, invalidField("merchant", "merchant is required")
	}
	if len(in.Data) == 0 {
		return nil, invalidField("billFile", "please upload a bill file (PDF or JPG)")
	}
	if len(in.Data) > MaxBillSize {
		return nil, invalidField("billFile", "file exceeds the 2 MiB limit")
	}
	fileType, ok := fileTypeFor(in.ContentType)
	if !ok {
		return nil, invalidField("billFile", "only PDF and JPG files are allowed")
	}

	user, err := s.callerUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(in.Data)
	now := time.Now().Unix()
	blob := &models.Blob{
		ID:          hex.EncodeToString(digest[:]),
		OwnerID:     user.ID,
		Title:       in.Title,
		Category:    in.Category,
		Type:        in.Type,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Size:        int64(len(in.Data)),
		Data:        in.Data,
		CreatedAt:   now,
	}
	if err := s.store.PutBlob(ctx, blob); err != nil {
		return nil, err
	}

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
		Bill: &models.Attachment{
			FileID:   blob.ID,
			Filename: in.Filename,
			FileType: fileType,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	slog.Info("Bill uploaded",
		"transaction_id", tx.ID,
		"file_id", blob.ID,
		"user_id", user.ID,
		"size", blob.Size,
	)
	return tx, nil
}

// ListUserBills returns the caller's transactions that carry an
// attachment, newest date first. Bill listings are personal, not
// group-wide: only the uploader manages their bill documents.
func (s *BillService) ListUserBills(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.store.ListBillTransactions(ctx, userID)
}

// Serve resolves a bill file for streaming. The ownership check runs
// before the blob lookup: a file id belonging to someone else yields
// ErrNotFound whether or not the blob exists.
func (s *BillService) Serve(ctx context.Context, userID, fileID string) (*models.Blob, error) {
	tx, err := s.store.GetTransactionByFileID(ctx, fileID, userID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotFound
	}

	blob, err := s.store.GetBlob(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, ErrNotFound
	}

	return blob, nil
}

// Delete removes the bill from a transaction: the blob goes first (unless
// other transactions still share it), then the attachment columns are
// cleared. The transaction row itself is retained.
func (s *BillService) Delete(ctx context.Context, userID, transactionID string) error {
	tx, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if tx == nil || tx.CreatedBy != userID {
		return ErrNotFound
	}
	if tx.Bill == nil {
		return ErrNotFound
	}

	refs, err := s.store.CountAttachmentRefs(ctx, tx.Bill.FileID)
	if err != nil {
		return err
	}
	// Deduped content may back several transactions; only the last
	// reference takes the blob with it.
	if refs <= 1 {
		if err := s.store.DeleteBlob(ctx, tx.Bill.FileID); err != nil {
			return err
		}
	}

	if err := s.store.ClearAttachment(ctx, tx.ID); err != nil {
		return err
	}

	slog.Info("Bill deleted", "transaction_id", tx.ID, "file_id", tx.Bill.FileID, "user_id", userID)
	return nil
}

func (s *BillService) callerUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Deleted {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
