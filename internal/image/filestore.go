package image

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// uploadsPrefix starts every stored path. It is part of the on-disk
// contract shared with any pre-existing data: records store a relative
// location like /uploads/sellers/42_1706000000000.png.
const uploadsPrefix = "/uploads"

// FileStore is the referenced strategy: blobs are written as files under
// Dir/<Kind>/ and owner records keep only the relative path. Dir is the
// uploads root on the local filesystem; Kind is the per-owner-kind
// subdirectory ("viewers" or "sellers").
type FileStore struct {
	Dir  string
	Kind string
}

// NewFileStore creates the kind subdirectory under the uploads root.
func NewFileStore(dir, kind string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, kind), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &FileStore{Dir: dir, Kind: kind}, nil
}

// Store writes data to a new file named {ownerId}_{timestampMillis}{ext}.
// The file is opened with O_EXCL and the millisecond is bumped on
// collision, so two stores for the same owner in the same millisecond
// cannot overwrite each other.
func (s *FileStore) Store(_ context.Context, ownerID uint64, data []byte, contentType, filename string) (Ref, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = extensionFor(contentType)
	}
	ms := time.Now().UnixMilli()
	for {
		key := fmt.Sprintf("%d_%d%s", ownerID, ms, ext)
		full := filepath.Join(s.Dir, s.Kind, key)
		f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if os.IsExist(err) {
				ms++
				continue
			}
			return Ref{}, fmt.Errorf("create blob file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(full)
			return Ref{}, fmt.Errorf("write blob file: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(full)
			return Ref{}, fmt.Errorf("close blob file: %w", err)
		}
		return Ref{Path: path.Join(uploadsPrefix, s.Kind, key)}, nil
	}
}

// Load reads the file behind a stored path. A record pointing at a file
// that is gone from disk is a fault and reported as ErrNotFound.
func (s *FileStore) Load(_ context.Context, ref Ref) ([]byte, string, error) {
	if ref.Path == "" {
		return nil, "", ErrNotFound
	}
	data, err := os.ReadFile(s.resolve(ref.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("read blob file: %w", err)
	}
	ct := mime.TypeByExtension(path.Ext(ref.Path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return data, ct, nil
}

// Remove deletes the file behind a stored path. Deleting a file that does
// not exist is a no-op.
func (s *FileStore) Remove(_ context.Context, ref Ref) error {
	if ref.Path == "" {
		return nil
	}
	if err := os.Remove(s.resolve(ref.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob file: %w", err)
	}
	return nil
}

// resolve maps a stored relative path onto the local uploads root.
func (s *FileStore) resolve(stored string) string {
	rel := strings.TrimPrefix(stored, uploadsPrefix+"/")
	return filepath.Join(s.Dir, filepath.FromSlash(rel))
}

// extensionFor picks a file extension when the upload carried no usable
// filename. Only allow-listed types reach this point.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	}
	return ".bin"
}
