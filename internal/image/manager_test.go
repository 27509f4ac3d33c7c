package image

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOwners is an in-memory OwnerStore with a fixed set of owner ids.
type fakeOwners struct {
	mu         sync.Mutex
	refs       map[uint64]Ref
	setRefErr  error
	setRefCall int
}

func newFakeOwners(ids ...uint64) *fakeOwners {
	refs := make(map[uint64]Ref, len(ids))
	for _, id := range ids {
		refs[id] = Ref{}
	}
	return &fakeOwners{refs: refs}
}

func (f *fakeOwners) ImageRef(_ context.Context, ownerID uint64) (Ref, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.refs[ownerID]
	if !ok {
		return Ref{}, ErrOwnerNotFound
	}
	return ref, nil
}

func (f *fakeOwners) SetImageRef(_ context.Context, ownerID uint64, ref Ref) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setRefCall++
	if f.setRefErr != nil {
		return f.setRefErr
	}
	if _, ok := f.refs[ownerID]; !ok {
		return ErrOwnerNotFound
	}
	f.refs[ownerID] = ref
	return nil
}

func TestManagerUploadRetrieveInline(t *testing.T) {
	owners := newFakeOwners(42)
	m := NewManager(InlineStore{}, owners)
	ctx := context.Background()

	require.NoError(t, m.Upload(ctx, 42, []byte("jpeg-bytes"), "image/jpeg", "face.jpg"))

	data, ct, err := m.Retrieve(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Equal(t, "image/jpeg", ct)
}

func TestManagerUploadUnknownOwner(t *testing.T) {
	m := NewManager(InlineStore{}, newFakeOwners(1))

	err := m.Upload(context.Background(), 999, []byte("x"), "image/png", "a.png")
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestManagerUploadInvalidFormatLeavesStateUnchanged(t *testing.T) {
	owners := newFakeOwners(42)
	m := NewManager(InlineStore{}, owners)
	ctx := context.Background()

	err := m.Upload(ctx, 42, []byte("%PDF-"), "application/pdf", "doc.pdf")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Zero(t, owners.setRefCall)

	_, _, err = m.Retrieve(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerDeleteThenRetrieve(t *testing.T) {
	owners := newFakeOwners(42)
	m := NewManager(InlineStore{}, owners)
	ctx := context.Background()

	require.NoError(t, m.Upload(ctx, 42, []byte("gif"), "image/gif", "a.gif"))
	require.NoError(t, m.Delete(ctx, 42))

	_, _, err := m.Retrieve(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again reports the attachment as already gone.
	assert.ErrorIs(t, m.Delete(ctx, 42), ErrNotFound)
}

func TestManagerReplaceReleasesOldBlob(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "sellers")
	require.NoError(t, err)

	owners := newFakeOwners(7)
	m := NewManager(fs, owners)
	ctx := context.Background()

	require.NoError(t, m.Upload(ctx, 7, []byte("B1"), "image/png", "one.png"))
	require.NoError(t, m.Replace(ctx, 7, []byte("B2"), "image/png", "two.png"))

	// Only the second blob may remain on disk and it must hold B2.
	entries, err := os.ReadDir(filepath.Join(dir, "sellers"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, _, err := m.Retrieve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("B2"), data)
}

func TestManagerConcurrentReplacesLeaveOneBlob(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "sellers")
	require.NoError(t, err)

	owners := newFakeOwners(7)
	m := NewManager(fs, owners)
	ctx := context.Background()

	require.NoError(t, m.Upload(ctx, 7, []byte("seed"), "image/png", "seed.png"))

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			body := []byte(fmt.Sprintf("blob-%d", n))
			assert.NoError(t, m.Replace(ctx, 7, body, "image/png", "a.png"))
		}(i)
	}
	wg.Wait()

	// Writes to one owner serialize, so every superseded blob is removed
	// and exactly one file survives.
	entries, err := os.ReadDir(filepath.Join(dir, "sellers"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, _, err := m.Retrieve(ctx, 7)
	require.NoError(t, err)
	disk, err := os.ReadFile(filepath.Join(dir, "sellers", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, disk, data)
}

func TestManagerUploadRefSaveFailureDropsNewBlob(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "viewers")
	require.NoError(t, err)

	owners := newFakeOwners(3)
	owners.setRefErr = errors.New("db down")
	m := NewManager(fs, owners)

	err = m.Upload(context.Background(), 3, []byte("x"), "image/png", "a.png")
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "viewers"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManagerRetrieveDanglingFileRef(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "viewers")
	require.NoError(t, err)

	owners := newFakeOwners(5)
	owners.refs[5] = Ref{Path: "/uploads/viewers/5_1700000000000.png"}
	m := NewManager(fs, owners)

	_, _, err = m.Retrieve(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}
