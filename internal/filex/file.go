// Package filex holds the small filesystem helpers the CLI needs: making
// room for the local database and loading pictures from disk.
package filex

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
)

// MaxImageBytes bounds pictures read from disk.
const MaxImageBytes = 5 << 20

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadImage loads a picture, sniffing its content type. Files that are
// empty, too large or not images wrap common.ErrValidation.
func ReadImage(path string) (*diary.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", common.ErrValidation, path)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", common.ErrValidation, path, MaxImageBytes)
	}

	ct := http.DetectContentType(data)
	if !isImage(ct) {
		return nil, fmt.Errorf("%w: %s is %s, not an image", common.ErrValidation, path, ct)
	}

	return &diary.Image{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

// WriteFile stores data at path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func isImage(contentType string) bool {
	switch contentType {
	case "image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp":
		return true
	}
	return false
}
