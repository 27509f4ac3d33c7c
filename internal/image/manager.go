package image

import (
	"context"
	"fmt"
	"sync"
)

// Manager composes the format validator, a blob store strategy and the
// owner record repository into the four attachment operations. One Manager
// serves one owner kind; viewers and sellers each get their own instance
// wired with the strategy configured for that kind.
//
// The attachment of an owner moves between two states, empty and present.
// Upload and Replace both land in present (an upload over an existing
// attachment replaces it and releases the old blob rather than leaving it
// orphaned), Delete lands in empty. Writes for the same owner id are
// serialized with a per-owner lock so two concurrent replaces cannot race
// on which blob the record ends up pointing at.
type Manager struct {
	store  BlobStore
	owners OwnerStore

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewManager wires a manager for one owner kind.
func NewManager(store BlobStore, owners OwnerStore) *Manager {
	return &Manager{store: store, owners: owners, locks: make(map[uint64]*sync.Mutex)}
}

// lock returns the write lock for one owner id, creating it on first use.
// Locks are never evicted; the map is bounded by the number of owners.
func (m *Manager) lock(ownerID uint64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[ownerID] = l
	}
	return l
}

// Upload validates and stores a new attachment for the owner and points the
// owner record at it. If the owner already has an attachment it is
// replaced: the new blob is written first, the record is saved, and only
// then is the old blob released, so a failure mid-operation can leave an
// orphaned file but never a record pointing at missing content.
func (m *Manager) Upload(ctx context.Context, ownerID uint64, data []byte, contentType, filename string) error {
	if err := ValidateFormat(contentType, int64(len(data))); err != nil {
		return err
	}
	l := m.lock(ownerID)
	l.Lock()
	defer l.Unlock()

	old, err := m.owners.ImageRef(ctx, ownerID)
	if err != nil {
		return err
	}
	ref, err := m.store.Store(ctx, ownerID, data, contentType, filename)
	if err != nil {
		return fmt.Errorf("store image: %w", err)
	}
	if err := m.owners.SetImageRef(ctx, ownerID, ref); err != nil {
		// The record still points at the old blob; drop the new one so it
		// does not linger unreferenced.
		_ = m.store.Remove(ctx, ref)
		return fmt.Errorf("save image reference: %w", err)
	}
	if !old.IsZero() {
		if err := m.store.Remove(ctx, old); err != nil {
			return fmt.Errorf("remove replaced image: %w", err)
		}
	}
	return nil
}

// Replace swaps the owner's attachment for new content. The contract is
// the same as Upload; the separate name mirrors the HTTP surface where
// POST uploads and PUT replaces.
func (m *Manager) Replace(ctx context.Context, ownerID uint64, data []byte, contentType, filename string) error {
	return m.Upload(ctx, ownerID, data, contentType, filename)
}

// Retrieve returns the attachment bytes and a content type for serving.
func (m *Manager) Retrieve(ctx context.Context, ownerID uint64) ([]byte, string, error) {
	ref, err := m.owners.ImageRef(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}
	if ref.IsZero() {
		return nil, "", ErrNotFound
	}
	return m.store.Load(ctx, ref)
}

// Delete clears the owner's attachment reference and releases the backing
// blob. The record is cleared before the blob is removed: a crash in
// between leaves at worst an unreferenced file, never a live reference to
// missing content. Deleting when no attachment exists reports ErrNotFound.
func (m *Manager) Delete(ctx context.Context, ownerID uint64) error {
	l := m.lock(ownerID)
	l.Lock()
	defer l.Unlock()

	ref, err := m.owners.ImageRef(ctx, ownerID)
	if err != nil {
		return err
	}
	if ref.IsZero() {
		return ErrNotFound
	}
	if err := m.owners.SetImageRef(ctx, ownerID, Ref{}); err != nil {
		return fmt.Errorf("clear image reference: %w", err)
	}
	if err := m.store.Remove(ctx, ref); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
