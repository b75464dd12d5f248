// Package storage provides the object store for uploaded listing images.
// Objects live on the local filesystem under one directory per bucket and
// are served back under the public /media/ URL path.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// BucketItemImages holds uploaded listing images.
const BucketItemImages = "item-images"

var (
	// ErrInvalidKey indicates an object key that could address outside the bucket.
	ErrInvalidKey = errors.New("invalid object key")
	// ErrObjectNotFound indicates the requested object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// Keys are ULID-derived names with a short extension.
	keyRegex = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}(\.[a-zA-Z0-9]{1,8})?$`)
)

// Store is a filesystem-backed object store.
type Store struct {
	root    string
	baseURL string
}

// New creates a Store rooted at dir. Bucket directories are created eagerly
// so a missing media volume fails at startup, not on first upload.
func New(dir, baseURL string) (*Store, error) {
	bucketDir := filepath.Join(dir, BucketItemImages)
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket directory: %w", err)
	}

	return &Store{
		root:    dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// NewObjectKey derives a collision-resistant object key for an uploaded
// file: a ULID (millisecond timestamp + randomness, lexically sortable by
// upload time) plus the original file extension.
func NewObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 9 { // dot + 8 chars
		ext = ""
	}
	return ulid.Make().String() + ext
}

// Upload writes the object into the bucket under the given key.
// The key must be freshly generated; an existing object is never overwritten.
func (s *Store) Upload(bucket, key string, r io.Reader) error {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create object %s/%s: %w", bucket, key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("write object %s/%s: %w", bucket, key, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(p)
		return fmt.Errorf("close object %s/%s: %w", bucket, key, err)
	}

	return nil
}

// PublicURL returns the URL the stored object is served from.
func (s *Store) PublicURL(bucket, key string) string {
	return s.baseURL + path.Join("/media", bucket, key)
}

// Open opens a stored object for reading. The caller closes the file.
func (s *Store) Open(bucket, key string) (*os.File, error) {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open object %s/%s: %w", bucket, key, err)
	}
	return f, nil
}

// Delete removes a stored object. Deleting an absent object is not an
// error, so the compensating path after a failed listing insert is
// idempotent.
func (s *Store) Delete(bucket, key string) error {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// objectPath validates the key and resolves it inside the bucket directory.
func (s *Store) objectPath(bucket, key string) (string, error) {
	if bucket != BucketItemImages {
		return "", ErrInvalidKey
	}
	if !keyRegex.MatchString(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, bucket, key), nil
}
