package marketplace

import (
	"encoding/csv"
	"fmt"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"searchbot/internal/app/helpers"
	"strconv"
	"strings"
	"time"

	"github.com/stoewer/go-strcase"
)

const (
	exportFilePrefix     = "carousell_results"
	namespaceMaxLength   = 50
	defaultExportSubject = "search"
)

var (
	ErrExportPathOutsideDir = errors.New("export path is outside of results dir")

	unsafeNamespaceChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Exporter writes search results as CSV files into a results directory.
type Exporter struct {
	dir string
	now func() time.Time
}

func NewExporter(dir string) *Exporter {
	return &Exporter{
		dir: dir,
		now: time.Now,
	}
}

// Export listings into a uniquely named CSV file and return its path.
func (e *Exporter) Export(searchTerm string, listings []Listing) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	path, err := e.reservePath(searchTerm)
	if err != nil {
		return "", err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	defer file.Close()

	writer := csv.NewWriter(file)

	rows := [][]string{{"name", "price", "username"}}
	for _, listing := range listings {
		rows = append(rows, []string{listing.Name, listing.Price, listing.Seller})
	}

	if err := writer.WriteAll(rows); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write export file: %w", err)
	}

	return path, nil
}

// Get a not yet existing file path for the search term.
func (e *Exporter) reservePath(searchTerm string) (string, error) {
	namespace := exportNamespace(searchTerm)

	baseName := helpers.ConcatStrings(exportFilePrefix, "_", namespace, "_", helpers.TimeToFileName(e.now()))

	for i := 1; i < 100; i++ {
		name := baseName
		if i > 1 {
			name = helpers.ConcatStrings(baseName, "_", strconv.Itoa(i))
		}

		path := filepath.Join(e.dir, helpers.ConcatStrings(name, ".csv"))
		if filepath.Dir(path) != filepath.Clean(e.dir) {
			return "", fmt.Errorf("%w: %q", ErrExportPathOutsideDir, searchTerm)
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}

	return "", fmt.Errorf("unable to find free export file name for %q", searchTerm)
}

// Get file name safe part for the search term: snake case of [a-z0-9_] only.
func exportNamespace(searchTerm string) string {
	namespace := unsafeNamespaceChars.ReplaceAllString(strcase.SnakeCase(searchTerm), "_")

	if len(namespace) > namespaceMaxLength {
		namespace = namespace[:namespaceMaxLength]
	}

	namespace = strings.Trim(namespace, "_")
	if namespace == "" {
		return defaultExportSubject
	}

	return namespace
}
