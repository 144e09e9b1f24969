// Package cropstore persists plate and vehicle crops to disk.
package cropstore

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore writes crops as JPEG files under a root media directory,
// grouped by kind: plates/ for plate crops, cars/ for vehicle context.
// It implements the pipeline's StorageSink.
type FileStore struct {
	Root string
}

// NewFileStore creates the media directory layout under root.
func NewFileStore(root string) (*FileStore, error) {
	for _, sub := range []string{"plates", "cars"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create media directory: %w", err)
		}
	}
	return &FileStore{Root: root}, nil
}

// SaveCrop encodes the crop as JPEG under a short unique name derived from
// the suggested kind ("plate", "car") and returns the path relative to the
// media root.
func (s *FileStore) SaveCrop(img image.Image, kind string) (string, error) {
	sub := "plates"
	if kind != "plate" {
		sub = "cars"
	}

	name := fmt.Sprintf("%s_%s.jpg", kind, uuid.NewString()[:8])
	rel := filepath.ToSlash(filepath.Join(sub, name))

	f, err := os.Create(filepath.Join(s.Root, sub, name))
	if err != nil {
		return "", fmt.Errorf("create crop file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, nil); err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}
	return rel, nil
}
