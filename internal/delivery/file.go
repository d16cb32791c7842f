package delivery

import (
	"context"

	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/filex"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dustin/go-humanize"
)

// FileDeliverer writes artifacts into a directory on the local disk.
type FileDeliverer struct {
	dir    string
	logger logging.Logger
}

func NewFileDeliverer(dir string, l logging.Logger) *FileDeliverer {
	return &FileDeliverer{dir: dir, logger: l.With("module", "file_delivery")}
}

func (d *FileDeliverer) Deliver(ctx context.Context, a export.Artifact, filename string) error {
	if err := ctx.Err(); err != nil {
		return failure(filename, err)
	}

	path, err := filex.WriteFile(d.dir, filename, a.Bytes)
	if err != nil {
		return failure(filename, err)
	}

	d.logger.Info(ctx, "artifact saved", "path", path, "size", humanize.Bytes(uint64(len(a.Bytes))))
	return nil
}
