package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sells-group/hrdocs-cli/pkg/storage"
)

// FileCheck is the outcome of validating file metadata before download.
type FileCheck struct {
	IsValid bool
	Errors  []string
}

// FileValidator screens files by metadata alone, before any bytes move.
type FileValidator interface {
	Validate(meta storage.FileMetadata) FileCheck
}

// SpreadsheetValidator accepts Excel workbooks under a size cap and rejects
// editor lock files.
type SpreadsheetValidator struct {
	MaxSize int64 // bytes, default 20MB
}

var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// Validate checks name, extension, and size.
func (v SpreadsheetValidator) Validate(meta storage.FileMetadata) FileCheck {
	maxSize := v.MaxSize
	if maxSize <= 0 {
		maxSize = 20 << 20
	}

	var errs []string
	if strings.TrimSpace(meta.Name) == "" {
		errs = append(errs, "file name is empty")
	}
	if strings.HasPrefix(meta.Name, "~$") {
		errs = append(errs, "file is an editor lock file")
	}
	if ext := strings.ToLower(filepath.Ext(meta.Name)); !spreadsheetExtensions[ext] {
		errs = append(errs, fmt.Sprintf("unsupported extension %q", ext))
	}
	if meta.Size == 0 {
		errs = append(errs, "file is empty")
	}
	if meta.Size > maxSize {
		errs = append(errs, fmt.Sprintf("file exceeds %d byte limit", maxSize))
	}

	return FileCheck{IsValid: len(errs) == 0, Errors: errs}
}
