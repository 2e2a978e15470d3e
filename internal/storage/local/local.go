// Package local stores uploaded files on the local filesystem under a
// single root directory.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hanifml/storefront/internal/storage"
)

// Storage implements storage.Storage on a local directory.
type Storage struct {
	root string
}

// New creates a local storage rooted at dir, creating it if needed.
func New(dir string) (*Storage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{root: abs}, nil
}

// Save writes the file under root/subdir with a timestamped name derived
// from the prefix, keeping only the extension of the client filename.
func (s *Storage) Save(_ context.Context, in storage.SaveInput) (string, error) {
	dir := filepath.Join(s.root, in.Subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage subdir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if ext == "" {
		ext = ".bin"
	}
	name := fmt.Sprintf("%s_%d%s", in.Prefix, time.Now().UTC().UnixMilli(), ext)

	if err := os.WriteFile(filepath.Join(dir, name), in.Data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return storage.PublicPrefix + path(in.Subdir, name), nil
}

// Delete removes the file behind a public path. Paths that do not carry the
// public prefix, or that would escape the root after cleaning, are refused.
func (s *Storage) Delete(_ context.Context, publicPath string) bool {
	rel, ok := strings.CutPrefix(publicPath, storage.PublicPrefix)
	if !ok || rel == "" {
		return false
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return false
	}

	return os.Remove(full) == nil
}

// Root returns the absolute directory files are stored under, for mounting
// the static file server.
func (s *Storage) Root() string {
	return s.root
}

func path(subdir, name string) string {
	if subdir == "" {
		return name
	}
	return subdir + "/" + name
}
