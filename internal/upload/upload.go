// Package upload checks record files before they are sent to the API.
package upload

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNotCSV is returned for files whose name or content is not CSV.
	ErrNotCSV = errors.New("not a CSV file")
	// ErrEmpty is returned for zero-length files.
	ErrEmpty = errors.New("file is empty")
)

// CheckCSV reports whether name and the content of r look like a CSV export.
// r is rewound to the start before CheckCSV returns.
func CheckCSV(name string, r io.ReadSeeker) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s must have a .csv extension", ErrNotCSV, name)
	}

	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return fmt.Errorf("detect content type of %s: %w", name, err)
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek %s: %w", name, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", name, err)
	}
	if end == 0 {
		return fmt.Errorf("%w: %s", ErrEmpty, name)
	}

	if !mtype.Is("text/csv") && !mtype.Is("text/plain") {
		return fmt.Errorf("%w: %s looks like %s", ErrNotCSV, name, mtype.String())
	}
	return nil
}
