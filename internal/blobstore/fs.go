package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eregister/pkg/platform/sentinel"
)

// FSStore writes blobs under a root directory and returns slash-separated
// paths as references, matching how downstream renderers resolve them.
type FSStore struct {
	root string
}

func NewFS(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	path := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", sentinel.ErrUnavailable)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", sentinel.ErrUnavailable)
	}
	return filepath.ToSlash(path), nil
}

func (s *FSStore) Delete(_ context.Context, ref string) error {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if !strings.HasPrefix(clean, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return fmt.Errorf("reference %q outside blob root", ref)
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
