package export

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/couplespace/internal/common"
)

const (
	MimeJSON     = "application/json"
	MimeMarkdown = "text/markdown"
	MimeZip      = "application/zip"
	MimeSealed   = "application/octet-stream"
)

// Artifact is a finished export, ready to be handed to a Deliverer.
type Artifact struct {
	Filename string
	MimeType string
	Bytes    []byte
}

// Format selects the representation of a flat export.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "json", "markdown" and "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("format %q: %w", s, common.ErrUnsupportedFormat)
}

// FlatFilename is the fixed name of a whole-database export.
func FlatFilename(f Format) string {
	if f == FormatMarkdown {
		return "couple-space-data.md"
	}
	return "couple-space-data.json"
}

// ArchiveFilename is the name of a monthly backup archive.
func ArchiveFilename(year, month int) string {
	return fmt.Sprintf("couple-space-backup-%d-%02d.zip", year, month)
}

// AnnualReportFilename is the name of the yearly Markdown report.
func AnnualReportFilename(year int) string {
	return fmt.Sprintf("%d年度报告.md", year)
}
