package image

import "context"

// Ref is the attachment reference persisted on an owner record. Exactly one
// representation is populated at a time: Data for the inline strategy (the
// bytes live in a column of the owner's row), Path for the referenced
// strategy (a relative location under the uploads root, beginning with
// "/uploads/"). A zero Ref means the owner has no attachment.
type Ref struct {
	Data []byte
	Path string
}

// IsZero reports whether the reference points at nothing.
func (r Ref) IsZero() bool { return len(r.Data) == 0 && r.Path == "" }

// BlobStore persists and retrieves the raw bytes of one attachment,
// independent of how the owner record's reference is updated. Two
// implementations exist: InlineStore keeps bytes in the record itself,
// FileStore writes them under the uploads root.
type BlobStore interface {
	// Store writes data and returns the reference the caller must persist
	// on the owner record.
	Store(ctx context.Context, ownerID uint64, data []byte, contentType, filename string) (Ref, error)

	// Load resolves a reference to its bytes and a content type suitable
	// for serving. Returns ErrNotFound when the reference is non-zero but
	// the backing blob is gone.
	Load(ctx context.Context, ref Ref) ([]byte, string, error)

	// Remove releases the blob behind ref. Removing a blob that is already
	// gone is a no-op, not an error.
	Remove(ctx context.Context, ref Ref) error
}

// OwnerStore is the slice of the owner record repository the manager
// depends on: find the current reference by id, save a new one. The owner
// record stays the single source of truth for whether an attachment
// exists; the blob store is subordinate to it. Implementations return
// ErrOwnerNotFound when the id does not resolve to a record.
type OwnerStore interface {
	ImageRef(ctx context.Context, ownerID uint64) (Ref, error)
	SetImageRef(ctx context.Context, ownerID uint64, ref Ref) error
}
