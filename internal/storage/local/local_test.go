package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifml/storefront/internal/storage"
)

func TestStorage_SaveAndDelete(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	publicPath, err := s.Save(ctx, storage.SaveInput{
		Subdir:   "users",
		Prefix:   "u-123",
		Filename: "avatar.PNG",
		Data:     []byte("image-bytes"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(publicPath, "/uploads/users/u-123_"))
	assert.True(t, strings.HasSuffix(publicPath, ".png"))

	rel := strings.TrimPrefix(publicPath, "/uploads/")
	data, err := os.ReadFile(filepath.Join(s.Root(), rel))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	assert.True(t, s.Delete(ctx, publicPath))
	_, err = os.Stat(filepath.Join(s.Root(), rel))
	assert.True(t, os.IsNotExist(err))
}

func TestStorage_Save_NoExtension(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	publicPath, err := s.Save(context.Background(), storage.SaveInput{
		Subdir:   "products",
		Prefix:   "p-1",
		Filename: "upload",
		Data:     []byte("x"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(publicPath, ".bin"))
}

func TestStorage_Delete_MissingFile(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.False(t, s.Delete(context.Background(), "/uploads/users/gone.jpg"))
}

func TestStorage_Delete_RefusesOutsidePaths(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	// A file next to the root must not be reachable.
	outside := filepath.Join(filepath.Dir(root), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	assert.False(t, s.Delete(context.Background(), "/uploads/../secret.txt"))
	assert.False(t, s.Delete(context.Background(), "/etc/passwd"))
	assert.False(t, s.Delete(context.Background(), "/uploads/"))

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}
