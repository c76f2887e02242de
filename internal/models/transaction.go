package models

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// FileType is the kind of an uploaded bill document.
type FileType string

const (
	FilePDF FileType = "pdf"
	FileJPG FileType = "jpg"
)

// Attachment is the bill file metadata embedded on a transaction.
// The bytes themselves live in the blob store under FileID.
type Attachment struct {
	// FileID is the blob identifier returned at upload time.
	FileID string `json:"fileId"`

	// Filename is the original client-supplied file name.
	Filename string `json:"filename"`

	// FileType is "pdf" or "jpg".
	FileType FileType `json:"fileType"`
}

// Transaction is a single ledger entry. It is visible to every member of
// its group but may only be mutated by its creator.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group, nil for entries created by users
	// without a group. Group members share visibility over all entries
	// with their GroupID.
	GroupID *string `json:"groupId,omitempty"`

	// CreatedBy is the user ID of the creator, the only user allowed to
	// update or delete the entry.
	CreatedBy string `json:"createdBy"`

	// Title is the human-readable name for the entry.
	Title string `json:"title"`

	// Amount is the positive, currency-agnostic value.
	Amount float64 `json:"amount"`

	// Category is a free-form grouping label (e.g. "Food", "Rent").
	Category string `json:"category"`

	// Date is the Unix timestamp the entry is booked under (user-chosen,
	// not the insertion time).
	Date int64 `json:"date"`

	// Type is income or expense.
	Type TransactionType `json:"type"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Merchant is the optional counterparty name.
	Merchant string `json:"merchant,omitempty"`

	// Bill is the attached bill document, nil when none is attached.
	Bill *Attachment `json:"billFile,omitempty"`

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64 `json:"updatedAt"`
}
