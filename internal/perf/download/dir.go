package download

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Dir writes downloads into a directory on disk.
type Dir struct {
	path string
}

func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) TriggerDownload(filename string, data []byte) error {
	target := filepath.Join(d.path, filepath.Base(filename))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	slog.Info("Result file written", "path", target, "bytes", len(data))
	return nil
}

// Path returns where filename ends up when downloaded.
func (d *Dir) Path(filename string) string {
	return filepath.Join(d.path, filepath.Base(filename))
}

// ReadFile reads a result file selected by the user.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result file: %w", err)
	}
	return data, nil
}
