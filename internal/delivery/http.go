package delivery

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/couplespace/internal/export"
)

// HTTPDeliverer streams an artifact as a download in an HTTP response.
type HTTPDeliverer struct {
	w http.ResponseWriter
}

func NewHTTPDeliverer(w http.ResponseWriter) *HTTPDeliverer {
	return &HTTPDeliverer{w: w}
}

func (d *HTTPDeliverer) Deliver(ctx context.Context, a export.Artifact, filename string) error {
	if err := ctx.Err(); err != nil {
		return failure(filename, err)
	}

	h := d.w.Header()
	h.Set("Content-Type", contentType(a.MimeType))
	h.Set("Content-Disposition", ContentDisposition(filename))
	h.Set("Content-Length", strconv.Itoa(len(a.Bytes)))
	d.w.WriteHeader(http.StatusOK)

	if _, err := d.w.Write(a.Bytes); err != nil {
		return failure(filename, err)
	}
	return nil
}

// ContentDisposition builds an attachment header that keeps non-ASCII names
// (e.g. "2024年度报告.md") intact via the RFC 5987 filename* parameter.
func ContentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func contentType(m string) string {
	switch m {
	case export.MimeJSON, export.MimeMarkdown:
		return m + "; charset=utf-8"
	case "":
		return "application/octet-stream"
	}
	return m
}
