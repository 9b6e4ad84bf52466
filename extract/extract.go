// Package extract converts uploaded documents into plain text for the
// content-analysis stage.
//
// Extraction is best effort: unsupported content types yield an empty
// string rather than an error, and a file that fails to parse is reported
// and skipped without affecting the other files in the batch.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// File is one uploaded document.
type File struct {
	// Name is the file name; its extension selects the extractor when no
	// MIME type is given.
	Name string

	// MIMEType is the declared content type, optional.
	MIMEType string

	// Reader supplies the file contents.
	Reader io.Reader
}

// Error reports a single file that failed to extract. Other files in the
// batch are unaffected.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Text extracts plain text from a single document. Unsupported content
// types return an empty string and no error.
func Text(f File) (string, error) {
	switch kind(f) {
	case "text", "markdown":
		data, err := io.ReadAll(f.Reader)
		if err != nil {
			return "", &Error{Name: f.Name, Err: err}
		}
		return string(data), nil
	case "csv":
		return csvText(f)
	default:
		return "", nil
	}
}

// Aggregate extracts every file in the batch and concatenates the results.
// Files that fail are logged and skipped; the aggregate uses only the
// successfully extracted files. The returned errors report the failures.
func Aggregate(files []File, log *slog.Logger) (string, []error) {
	if log == nil {
		log = slog.Default()
	}

	var parts []string
	var errs []error
	for _, f := range files {
		text, err := Text(f)
		if err != nil {
			log.Warn("file extraction failed", "file", f.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		if text == "" {
			log.Debug("no text extracted", "file", f.Name)
			continue
		}
		parts = append(parts, strings.TrimSpace(text))
	}
	return strings.Join(parts, "\n\n"), errs
}

// csvText flattens a CSV file into delimiter-joined lines, one per record,
// headed by the file name the way spreadsheet sheets are labeled.
func csvText(f File) (string, error) {
	r := csv.NewReader(f.Reader)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return "", &Error{Name: f.Name, Err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Sheet: %s ---\n", f.Name)
	for _, rec := range records {
		b.WriteString(strings.Join(rec, " | "))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// kind classifies a file by MIME type, falling back to the extension.
func kind(f File) string {
	switch f.MIMEType {
	case "text/plain":
		return "text"
	case "text/markdown":
		return "markdown"
	case "text/csv":
		return "csv"
	}

	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".txt":
		return "text"
	case ".md", ".markdown":
		return "markdown"
	case ".csv":
		return "csv"
	}
	return ""
}
