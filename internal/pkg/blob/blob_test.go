package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelev/review-system/internal/domain"
)

func TestLocalStore_StoreAndDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), []byte("payload"), "photo.JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	data, err := os.ReadFile(filepath.Join(store.root, strings.TrimPrefix(ref, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(context.Background(), ref))

	// Deleting again is a no-op
	assert.NoError(t, store.Delete(context.Background(), ref))
}

func TestLocalStore_DeleteRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "/uploads/../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}
