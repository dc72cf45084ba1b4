package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/geofieldx/geofieldx/internal/pkg/metrics"
)

// ImageStore implements ports.ImageStore on the local filesystem. Every
// saved photo gets a downscaled thumbnail next to it for map popups.
type ImageStore struct {
	root       string
	thumbWidth int
}

// NewImageStore creates the upload directory if needed.
func NewImageStore(root string, thumbWidth int) (*ImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if thumbWidth <= 0 {
		thumbWidth = 480
	}
	return &ImageStore{root: root, thumbWidth: thumbWidth}, nil
}

// Save decodes, re-encodes, and stores a photo under the feature's folder.
// The returned path is relative to the store root.
func (s *ImageStore) Save(ctx context.Context, featureID, filename string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	dir := filepath.Join(s.root, featureID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create feature dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext

	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	thumb := imaging.Resize(img, s.thumbWidth, 0, imaging.Lanczos)
	thumbName := strings.TrimSuffix(name, ext) + "_thumb" + ext
	if err := imaging.Save(thumb, filepath.Join(dir, thumbName)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}

	metrics.ImagesProcessed.Inc()
	return filepath.Join(featureID, name), nil
}

// Open reads a stored image by its relative path.
func (s *ImageStore) Open(ctx context.Context, path string) ([]byte, error) {
	clean := filepath.Clean(path)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid image path %q", path)
	}
	return os.ReadFile(filepath.Join(s.root, clean))
}

// Remove deletes a stored image and its thumbnail if present.
func (s *ImageStore) Remove(ctx context.Context, path string) error {
	clean := filepath.Clean(path)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid image path %q", path)
	}
	full := filepath.Join(s.root, clean)
	if err := os.Remove(full); err != nil {
		return err
	}
	ext := filepath.Ext(full)
	_ = os.Remove(strings.TrimSuffix(full, ext) + "_thumb" + ext)
	return nil
}
