package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/client/client"
	"github.com/dmitrijs2005/couplespace/internal/client/config"
	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/cryptox"
	"github.com/dmitrijs2005/couplespace/internal/delivery"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/filex"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dmitrijs2005/couplespace/internal/source"
	"github.com/dustin/go-humanize"
)

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted")

var dialRemote = func(addr, token string) (client.Client, error) {
	return client.NewGRPCClient(addr, token)
}

type App struct {
	config *config.Config
	logger logging.Logger
	out    io.Writer
	in     *bufio.Reader
	now    func() time.Time
}

// NewApp builds the CLI. Progress goes to out, prompts read from in, logs
// go to stderr.
func NewApp(c *config.Config, out io.Writer, in io.Reader) *App {
	return &App{
		config: c,
		logger: logging.NewJSONLogger(os.Stderr, c.LogLevel),
		out:    out,
		in:     bufio.NewReader(in),
		now:    time.Now,
	}
}

func (a *App) Run(ctx context.Context, o Options) error {
	switch o.Mode {
	case ModeOpen:
		return a.openSealed(o.In)
	case ModeImport:
		return a.importFile(ctx, o)
	case ModeOwner:
		return a.printOwner(ctx)
	}
	if o.Remote {
		return a.exportRemote(ctx, o)
	}
	return a.exportLocal(ctx, o)
}

func (a *App) exportLocal(ctx context.Context, o Options) error {
	loc, err := a.config.Location()
	if err != nil {
		return err
	}

	var (
		src   source.Source
		owner string
	)
	if o.Demo {
		src, owner = demoSource(a.now().In(loc)), DemoOwner
	} else {
		j, err := client.OpenJournal(ctx, a.config.DatabasePath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		if owner, err = j.Owner(ctx); err != nil {
			return err
		}
		src = j.Records
	}

	opts := []export.Option{
		export.WithClock(a.now),
		export.WithLocation(loc),
		export.WithLocale(export.ParseLocale(a.config.Locale)),
	}
	if o.Seal {
		pass, err := GetNewPassword(a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(pass)
		opts = append(opts, export.WithPassphrase(pass))
	}

	e := export.NewExporter(src, delivery.NewFileDeliverer(a.config.OutputDir, a.logger), a.logger, opts...)

	var art export.Artifact
	switch o.Mode {
	case ModeAll:
		art, err = e.ExportAll(ctx, owner, o.Format)
	case ModeMonth:
		art, err = e.ExportMonth(ctx, owner, o.Year, o.Month)
	case ModeReport:
		art, err = e.ExportYearReport(ctx, owner, o.Year)
	}
	if err != nil {
		return err
	}
	a.printSaved(art)
	return nil
}

func (a *App) exportRemote(ctx context.Context, o Options) error {
	c, err := dialRemote(a.config.ServerEndpointAddr, a.config.AccessToken)
	if err != nil {
		return err
	}
	defer c.Close()

	callCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	var art export.Artifact
	switch o.Mode {
	case ModeAll:
		art, err = c.ExportAll(callCtx, o.Format)
	case ModeMonth:
		art, err = c.ExportMonth(callCtx, o.Year, o.Month)
	case ModeReport:
		art, err = c.ExportYearReport(callCtx, o.Year)
	}
	if err != nil {
		return err
	}

	if o.Seal {
		pass, err := GetNewPassword(a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(pass)
		sealed, err := cryptox.Seal(pass, art.Bytes)
		if err != nil {
			return err
		}
		art = export.Artifact{Filename: art.Filename + ".enc", MimeType: export.MimeSealed, Bytes: sealed}
	}

	if err := delivery.NewFileDeliverer(a.config.OutputDir, a.logger).Deliver(ctx, art, art.Filename); err != nil {
		return err
	}
	a.printSaved(art)
	return nil
}

func (a *App) importFile(ctx context.Context, o Options) error {
	data, err := os.ReadFile(o.In)
	if err != nil {
		return err
	}
	doc, err := export.ParseFlat(data)
	if err != nil {
		return err
	}

	j, err := client.OpenJournal(ctx, a.config.DatabasePath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	owner, err := j.Owner(ctx)
	if err != nil {
		return err
	}

	if o.Replace && !o.Yes {
		ok, err := Confirm(a.in, "Replace every record of the local journal?", a.out)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	n, err := j.Import(ctx, owner, doc, o.Replace)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d records from %s\n", n, filepath.Base(o.In))
	return nil
}

// openSealed decrypts a sealed backup into the same directory, dropping the
// ".enc" suffix.
func (a *App) openSealed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !cryptox.IsSealed(data) {
		return fmt.Errorf("%s is not a sealed archive", filepath.Base(path))
	}

	pass, err := GetPassword(a.out, "Archive passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	plain, err := cryptox.Open(pass, data)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), ".enc")
	if name == filepath.Base(path) {
		name += ".zip"
	}
	saved, err := filex.WriteFile(filepath.Dir(path), name, plain)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%s)\n", saved, humanize.Bytes(uint64(len(plain))))
	return nil
}

func (a *App) printOwner(ctx context.Context) error {
	j, err := client.OpenJournal(ctx, a.config.DatabasePath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	owner, err := j.Owner(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, owner)
	return nil
}

func (a *App) printSaved(art export.Artifact) {
	fmt.Fprintf(a.out, "Saved %s (%s)\n",
		filepath.Join(a.config.OutputDir, art.Filename),
		humanize.Bytes(uint64(len(art.Bytes))))
}
