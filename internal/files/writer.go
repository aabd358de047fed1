package files

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tabprep/internal/frame"
)

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	// BOMPrefix prepends a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// WriteCSVFile writes a frame to a CSV file, creating parent directories
// as needed.
func WriteCSVFile(path string, f *frame.Frame, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return WriteCSV(file, f, options)
}

// WriteCSV writes a frame as CSV to the given writer.
func WriteCSV(w io.Writer, f *frame.Frame, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	header, records := f.Records()
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range records {
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
