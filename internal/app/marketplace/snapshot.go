package marketplace

import (
	"fmt"
	"os"
	"path/filepath"
	"searchbot/internal/app/helpers"
	"time"
)

const (
	SnapshotNoListings = "no_listings"
	SnapshotError      = "error"
)

// SnapshotWriter saves rendered pages for offline debugging of markup changes.
type SnapshotWriter struct {
	dir string
	now func() time.Time
}

func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{
		dir: dir,
		now: time.Now,
	}
}

// Save page HTML (and screenshot, if captured). Returns the HTML file path.
func (w *SnapshotWriter) Save(prefix string, page Page) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create debug dir: %w", err)
	}

	baseName := helpers.ConcatStrings(prefix, "_", helpers.TimeToFileName(w.now()), "_debug")
	htmlPath := filepath.Join(w.dir, helpers.ConcatStrings(baseName, ".html"))

	if err := os.WriteFile(htmlPath, []byte(page.Html), 0644); err != nil {
		return "", fmt.Errorf("write debug html: %w", err)
	}

	if len(page.Screenshot) > 0 {
		screenshotPath := filepath.Join(w.dir, helpers.ConcatStrings(baseName, ".png"))

		if err := os.WriteFile(screenshotPath, page.Screenshot, 0644); err != nil {
			return htmlPath, fmt.Errorf("write debug screenshot: %w", err)
		}
	}

	return htmlPath, nil
}
