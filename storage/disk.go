package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DiskStore persists blobs under root/<folder>/ and serves them below
// baseURL. The file extension comes from content sniffing, not from the
// client.
type DiskStore struct {
	root    string
	baseURL string
	log     *slog.Logger
}

func NewDiskStore(root, baseURL string, log *slog.Logger) *DiskStore {
	return &DiskStore{root: root, baseURL: baseURL, log: log}
}

func (d *DiskStore) Save(ctx context.Context, folder string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.New().String() + mimetype.Detect(data).Extension()
	dir := filepath.Join(d.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object store mkdir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("object store write: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", d.baseURL, folder, name)
	d.log.Debug("blob stored", "path", path, "url", url)
	return url, nil
}
