package models

// Blob is an uploaded bill file: immutable raw bytes plus the metadata
// recorded at upload time. The ID is the hex SHA-256 of the content, so
// identical uploads share a single stored copy.
type Blob struct {
	// ID is the content address (hex SHA-256 digest of Data).
	ID string

	// OwnerID is the user who first uploaded the content.
	OwnerID string

	// Title, Category and Type mirror the transaction fields supplied
	// alongside the upload, kept for manual inspection of orphans.
	Title    string
	Category string
	Type     TransactionType

	// Filename is the original client-supplied name.
	Filename string

	// ContentType is the media type ("application/pdf" or "image/jpeg").
	ContentType string

	// Size is the byte length of Data.
	Size int64

	// Data is the file content.
	Data []byte

	// CreatedAt is the Unix timestamp of the upload.
	CreatedAt int64
}
