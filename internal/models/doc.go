// Package models defines the core domain models for PaisaTrack.
//
// # Models
//
//   - User: a registered account; may belong to at most one Group
//   - Group: a named household whose members share transaction visibility
//   - Transaction: a single income or expense entry in the ledger
//   - Attachment: bill file metadata embedded on a Transaction
//   - Blob: the raw bytes of an uploaded bill file, stored separately
//
// # Design Principles
//
//  1. **Avoid circular references**: relationships use ID strings, never
//     pointers to other models.
//  2. **Soft delete**: users are flagged deleted, never removed, so
//     historical transactions keep a resolvable creator.
//  3. **Explicit attachment state**: a Transaction either carries a Bill
//     (*Attachment) or it is nil; there is no half-populated attachment.
package models
