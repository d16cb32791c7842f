package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
)

// ManifestName is the root entry of every backup archive.
const ManifestName = "backup-info.json"

// isoMillis mirrors the ISO-8601 form browsers produce for dates.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Manifest describes the content of a backup archive.
type Manifest struct {
	BackupDate string   `json:"backupDate"`
	Year       int      `json:"year"`
	Month      int      `json:"month"`
	DataTypes  []string `json:"dataTypes"`
	TotalItems int      `json:"totalItems"`
}

// Assembler packages rendered sections into deliverable artifacts.
type Assembler struct {
	Location *time.Location
	Locale   Locale
}

func NewAssembler(loc *time.Location, locale Locale) *Assembler {
	return &Assembler{Location: loc, Locale: locale}
}

// nonEmpty returns the sections with items, in category ordinal order.
func nonEmpty(sections []RenderedSection) []RenderedSection {
	out := make([]RenderedSection, 0, len(sections))
	for _, s := range sections {
		if s.ItemCount > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category.Ordinal < out[j].Category.Ordinal
	})
	return out
}

func (a *Assembler) localTime(t time.Time) string {
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}

// AssembleFlat joins the non-empty sections into one document of the given
// format: structured text for JSON, narrative text for Markdown.
func (a *Assembler) AssembleFlat(sections []RenderedSection, format Format, exportedAt time.Time) (Artifact, error) {
	filled := nonEmpty(sections)

	switch format {
	case FormatJSON:
		b, err := flatJSON(filled, exportedAt)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: FlatFilename(format), MimeType: MimeJSON, Bytes: b}, nil

	case FormatMarkdown:
		lb := labelsFor(a.Locale)
		var b strings.Builder
		b.WriteString(heading(1, lb.flatTitle))
		b.WriteString("\n\n")
		b.WriteString(labeled(lb.exportedAt, a.localTime(exportedAt)))
		b.WriteString("\n\n")
		for _, s := range filled {
			b.WriteString(s.NarrativeText)
		}
		return Artifact{Filename: FlatFilename(format), MimeType: MimeMarkdown, Bytes: []byte(b.String())}, nil
	}

	return Artifact{}, fmt.Errorf("format %q: %w", format, common.ErrUnsupportedFormat)
}

// flatJSON writes {"<fieldKey>": [...], ..., "exportDate": "..."} keeping the
// category order, then indents the whole document by two spaces.
func flatJSON(sections []RenderedSection, exportedAt time.Time) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for _, s := range sections {
		key, _ := json.Marshal(s.Category.FieldKey)
		compact.Write(key)
		compact.WriteByte(':')
		if err := json.Compact(&compact, []byte(s.StructuredText)); err != nil {
			return nil, fmt.Errorf("section %s: %w: %v", s.Category.FieldKey, common.ErrSerializationFailure, err)
		}
		compact.WriteByte(',')
	}
	date, _ := json.Marshal(exportedAt.UTC().Format(isoMillis))
	compact.WriteString(`"exportDate":`)
	compact.Write(date)
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSerializationFailure, err)
	}
	return out.Bytes(), nil
}

// AssembleArchive builds the monthly backup zip: the manifest first, then a
// folder per non-empty category holding its .json and .md files.
// A window without any item yields common.ErrEmptyBackupWindow.
func (a *Assembler) AssembleArchive(year, month int, sections []RenderedSection, exportedAt time.Time) (Artifact, error) {
	if month < 1 || month > 12 {
		return Artifact{}, fmt.Errorf("month %d: %w", month, common.ErrInvalidWindow)
	}

	filled := nonEmpty(sections)

	manifest := Manifest{
		BackupDate: exportedAt.UTC().Format(isoMillis),
		Year:       year,
		Month:      month,
		DataTypes:  make([]string, 0, len(filled)),
	}
	for _, s := range filled {
		manifest.DataTypes = append(manifest.DataTypes, s.Category.Folder())
		manifest.TotalItems += s.ItemCount
	}
	if manifest.TotalItems == 0 {
		return Artifact{}, fmt.Errorf("backup %d-%02d: %w", year, month, common.ErrEmptyBackupWindow)
	}

	manifestJSON, err := indentJSON(manifest)
	if err != nil {
		return Artifact{}, fmt.Errorf("manifest: %w: %v", common.ErrSerializationFailure, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeZipEntry(zw, ManifestName, manifestJSON, exportedAt); err != nil {
		return Artifact{}, err
	}
	for _, s := range filled {
		folder := s.Category.Folder()
		base := folder + "/" + folder
		if err := writeZipEntry(zw, base+".json", []byte(s.StructuredText), exportedAt); err != nil {
			return Artifact{}, err
		}
		if err := writeZipEntry(zw, base+".md", []byte(s.NarrativeText), exportedAt); err != nil {
			return Artifact{}, err
		}
	}
	if err := zw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("close archive: %w", err)
	}

	return Artifact{Filename: ArchiveFilename(year, month), MimeType: MimeZip, Bytes: buf.Bytes()}, nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
