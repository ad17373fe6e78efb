package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// SnapshotCapture writes debug images as timestamped PNG files.
type SnapshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewSnapshotCapture creates a capture that writes into outputDir.
func NewSnapshotCapture(outputDir, prefix string) *SnapshotCapture {
	return &SnapshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// OutputDir returns the directory snapshots are written to.
func (sc *SnapshotCapture) OutputDir() string {
	return sc.outputDir
}

// Filename returns the path a snapshot of the given frame would be saved to.
func (sc *SnapshotCapture) Filename(frame int) string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%05d.png", sc.prefix, timestamp, frame)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// Save encodes img as PNG and returns the file it was written to.
func (sc *SnapshotCapture) Save(img image.Image, frame int) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.Filename(frame)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}
