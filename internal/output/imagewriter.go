// Package output persists captures and intermediate rasters to disk.
package output

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// DiskImageWriter writes timestamped PNG files into a target directory.
// It satisfies the recognition bridge's requirement that captures exist on
// disk before a native call, and doubles as the debug dump sink.
type DiskImageWriter struct {
	dir     string
	enabled bool
}

// NewDiskImageWriter creates the target directory if needed. A disabled
// writer rejects every Write, which recognition treats as fatal for the
// engines that need disk-backed input.
func NewDiskImageWriter(dir string, enabled bool) (*DiskImageWriter, error) {
	if enabled {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create capture directory: %w", err)
		}
	}
	return &DiskImageWriter{dir: dir, enabled: enabled}, nil
}

// Write stores img as <kind>-<timestamp>.png and returns the full path.
func (w *DiskImageWriter) Write(img image.Image, kind string) (string, error) {
	if !w.enabled {
		return "", fmt.Errorf("image writing is disabled")
	}
	if kind == "" {
		kind = "image"
	}

	name := fmt.Sprintf("%s-%s.png", kind, time.Now().Format("20060102-150405.000"))
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// Dir returns the directory captures are written into.
func (w *DiskImageWriter) Dir() string { return w.dir }
