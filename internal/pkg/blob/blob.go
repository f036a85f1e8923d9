package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/avelev/review-system/internal/domain"
)

// Store is the blob store collaborator contract. Failures surface as
// domain.ErrStorageFailure; the core never retries them.
type Store interface {
	// Store persists the bytes and returns a public reference
	Store(ctx context.Context, data []byte, suggestedName string) (string, error)

	// Delete removes a previously stored blob by its public reference
	Delete(ctx context.Context, publicRef string) error
}

// publicPrefix is the URL path prefix under which stored blobs are served.
const publicPrefix = "/uploads/"

// LocalStore keeps blobs on the local filesystem and hands out /uploads/
// references. Object names are random; the original name only donates its
// extension.
type LocalStore struct {
	root string
}

// NewLocalStore creates the upload directory if needed and returns the store.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating upload dir %s: %v", domain.ErrStorageFailure, root, err)
	}
	return &LocalStore{root: root}, nil
}

// Store writes the blob under a generated name and returns its public reference.
func (s *LocalStore) Store(_ context.Context, data []byte, suggestedName string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(suggestedName))
	path := filepath.Join(s.root, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", domain.ErrStorageFailure, path, err)
	}

	return publicPrefix + name, nil
}

// Delete removes the blob behind a public reference. Deleting a reference
// that is already gone is not an error.
func (s *LocalStore) Delete(_ context.Context, publicRef string) error {
	name := strings.TrimPrefix(publicRef, publicPrefix)

	// Refuse anything that escapes the upload directory
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: invalid blob reference %q", domain.ErrStorageFailure, publicRef)
	}

	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing %s: %v", domain.ErrStorageFailure, name, err)
	}

	return nil
}
