// Package server wires the export server: PostgreSQL journal store, export
// pipeline, gRPC and HTTP surfaces, and optional S3 uploads.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/couplespace/internal/delivery"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dmitrijs2005/couplespace/internal/server/auth"
	"github.com/dmitrijs2005/couplespace/internal/server/config"
	"github.com/dmitrijs2005/couplespace/internal/server/importer"
	"github.com/dmitrijs2005/couplespace/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/couplespace/internal/server/rest"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/couplespace/internal/server/grpc"
)

var (
	openDB         = repomanager.Open
	newRepoManager = func() repomanager.RepositoryManager { return repomanager.NewPostgresRepositoryManager() }
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	grpc   *gs.GRPCServer
	http   *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	exporter := export.NewExporter(rm.Records(db), nil, logger,
		export.WithLocation(loc),
		export.WithLocale(export.ParseLocale(c.Locale)),
	)

	var uploader rest.Uploader
	if c.S3Enabled() {
		uploader = delivery.NewS3Deliverer(c.S3(), logger)
	}

	handler := rest.NewHandler(exporter, uploader, logger, c.SecretKey).
		WithImporter(importer.New(db, rm, logger))

	return &App{
		config: c,
		logger: logger,
		db:     db,
		grpc:   gs.NewGRPCServer(c.EndpointAddrGRPC, logger, exporter, c.SecretKey),
		http:   rest.NewServer(c.EndpointAddrHTTP, handler, logger),
	}, nil
}

// Run serves both surfaces until ctx is canceled or a signal arrives. A
// failing surface stops the other one.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...",
		"grpc", app.config.EndpointAddrGRPC,
		"http", app.config.EndpointAddrHTTP,
		"s3", app.config.S3Enabled(),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpc.Run(ctx) })
	g.Go(func() error { return app.http.Run(ctx) })

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	return nil
}

// MintToken issues an access token for owner with the configured secret.
func MintToken(c *config.Config, owner string) (string, error) {
	if owner == "" {
		return "", fmt.Errorf("owner is required")
	}
	return auth.GenerateToken(owner, []byte(c.SecretKey), c.AccessTokenValidityDuration)
}
