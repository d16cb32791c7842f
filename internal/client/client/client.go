package client

import (
	"context"

	"github.com/dmitrijs2005/couplespace/internal/export"
)

// Client fetches exports from a remote export server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	ExportAll(ctx context.Context, format export.Format) (export.Artifact, error)
	ExportMonth(ctx context.Context, year, month int) (export.Artifact, error)
	ExportYearReport(ctx context.Context, year int) (export.Artifact, error)
}
