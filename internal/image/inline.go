package image

import "context"

// InlineStore is the bytes-in-record strategy. The blob has no separate
// lifetime: storing hands the bytes back as the reference for the caller to
// write into the owner's row, and removal happens implicitly when the
// record's reference is cleared or overwritten.
type InlineStore struct{}

// Store returns the payload unchanged as an inline reference.
func (InlineStore) Store(_ context.Context, _ uint64, data []byte, _, _ string) (Ref, error) {
	return Ref{Data: data}, nil
}

// Load is a pass-through read of the inline bytes. The content type is not
// retained after storage, so reads default to image/jpeg.
func (InlineStore) Load(_ context.Context, ref Ref) ([]byte, string, error) {
	if len(ref.Data) == 0 {
		return nil, "", ErrNotFound
	}
	return ref.Data, "image/jpeg", nil
}

// Remove is a no-op: clearing the record's reference releases the bytes.
func (InlineStore) Remove(context.Context, Ref) error { return nil }
