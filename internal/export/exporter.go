package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/cryptox"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dmitrijs2005/couplespace/internal/source"
	"github.com/dustin/go-humanize"
)

// Deliverer hands a finished artifact to its destination under filename.
type Deliverer interface {
	Deliver(ctx context.Context, a Artifact, filename string) error
}

// Exporter runs the pipeline: collect → filter → classify → render →
// assemble → deliver. It holds no per-export state and may be shared.
type Exporter struct {
	source     source.Source
	deliverer  Deliverer
	logger     logging.Logger
	now        func() time.Time
	location   *time.Location
	locale     Locale
	passphrase []byte
}

type Option func(*Exporter)

// WithClock overrides time.Now, e.g. for reproducible archives in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithLocation sets the calendar used for windows and timestamps.
func WithLocation(loc *time.Location) Option {
	return func(e *Exporter) {
		if loc != nil {
			e.location = loc
		}
	}
}

func WithLocale(l Locale) Option {
	return func(e *Exporter) { e.locale = l }
}

// WithPassphrase seals backup archives; an empty passphrase disables sealing.
func WithPassphrase(p []byte) Option {
	return func(e *Exporter) { e.passphrase = p }
}

func NewExporter(src source.Source, d Deliverer, l logging.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		source:    src,
		deliverer: d,
		logger:    l.With("module", "exporter"),
		now:       time.Now,
		location:  time.Local,
		locale:    LocaleZH,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ExportAll builds and delivers the whole-database flat export.
func (e *Exporter) ExportAll(ctx context.Context, owner string, format Format) (Artifact, error) {
	a, err := e.BuildFlat(ctx, owner, format)
	if err != nil {
		return Artifact{}, err
	}
	return a, e.deliver(ctx, a)
}

// ExportMonth builds and delivers the backup archive of one month.
func (e *Exporter) ExportMonth(ctx context.Context, owner string, year, month int) (Artifact, error) {
	a, err := e.BuildMonthlyBackup(ctx, owner, year, month)
	if err != nil {
		return Artifact{}, err
	}
	return a, e.deliver(ctx, a)
}

// ExportYearReport builds and delivers the annual report.
func (e *Exporter) ExportYearReport(ctx context.Context, owner string, year int) (Artifact, error) {
	a, err := e.BuildAnnualReport(ctx, owner, year)
	if err != nil {
		return Artifact{}, err
	}
	return a, e.deliver(ctx, a)
}

// BuildFlat renders every record regardless of time into one document.
func (e *Exporter) BuildFlat(ctx context.Context, owner string, format Format) (Artifact, error) {
	if format != FormatJSON && format != FormatMarkdown {
		return Artifact{}, fmt.Errorf("format %q: %w", format, common.ErrUnsupportedFormat)
	}
	sections, err := e.sections(ctx, owner, nil, 2)
	if err != nil {
		return Artifact{}, err
	}
	a, err := e.assembler().AssembleFlat(sections, format, e.now())
	if err != nil {
		return Artifact{}, err
	}
	e.logAssembled(ctx, owner, a, sections)
	return a, nil
}

// BuildMonthlyBackup renders the records of one month into a zip archive,
// sealed when a passphrase is configured.
func (e *Exporter) BuildMonthlyBackup(ctx context.Context, owner string, year, month int) (Artifact, error) {
	w, err := journal.MonthWindow(year, month, e.location)
	if err != nil {
		return Artifact{}, err
	}
	sections, err := e.sections(ctx, owner, &w, 1)
	if err != nil {
		return Artifact{}, err
	}
	a, err := e.assembler().AssembleArchive(year, month, sections, e.now())
	if err != nil {
		if errors.Is(err, common.ErrEmptyBackupWindow) {
			e.logger.Info(ctx, "nothing to back up", "owner", owner, "year", year, "month", month)
		}
		return Artifact{}, err
	}
	if len(e.passphrase) > 0 {
		if a, err = seal(a, e.passphrase); err != nil {
			return Artifact{}, err
		}
	}
	e.logAssembled(ctx, owner, a, sections)
	return a, nil
}

// BuildAnnualReport renders the records of one calendar year into the
// Markdown report.
func (e *Exporter) BuildAnnualReport(ctx context.Context, owner string, year int) (Artifact, error) {
	w := journal.YearWindow(year, e.location)
	sections, err := e.sections(ctx, owner, &w, 2)
	if err != nil {
		return Artifact{}, err
	}
	a, err := e.assembler().AssembleAnnualReport(year, sections, e.now())
	if err != nil {
		return Artifact{}, err
	}
	e.logAssembled(ctx, owner, a, sections)
	return a, nil
}

// sections collects, filters (when w is set), classifies and renders. Kinds
// the classifier rejects are logged and skipped.
func (e *Exporter) sections(ctx context.Context, owner string, w *journal.TimeWindow, level int) ([]RenderedSection, error) {
	coll, err := source.Collect(ctx, e.source, owner)
	if err != nil {
		return nil, err
	}

	byKind := map[journal.Kind][]journal.Record{}
	for _, name := range coll.Names() {
		cat, err := journal.Classify(name)
		if err != nil {
			e.logger.Warn(ctx, "skipping records of unknown kind", "kind", name, "count", len(coll[name]))
			continue
		}
		recs := coll[name]
		if w != nil {
			recs = journal.Filter(cat.Kind, recs, *w)
		}
		byKind[cat.Kind] = recs
	}

	r := &Renderer{Location: e.location, Locale: e.locale, HeadingLevel: level}
	out := make([]RenderedSection, 0, len(byKind))
	for _, cat := range journal.Categories() {
		recs, ok := byKind[cat.Kind]
		if !ok {
			continue
		}
		s, err := r.Render(cat, recs)
		if err != nil {
			return nil, err
		}
		e.logger.Debug(ctx, "section rendered", "category", cat.Folder(), "items", s.ItemCount)
		out = append(out, s)
	}
	return out, nil
}

func (e *Exporter) assembler() *Assembler {
	return NewAssembler(e.location, e.locale)
}

func (e *Exporter) deliver(ctx context.Context, a Artifact) error {
	if e.deliverer == nil {
		return nil
	}
	if err := e.deliverer.Deliver(ctx, a, a.Filename); err != nil {
		e.logger.Error(ctx, "delivery failed", "file", a.Filename, "error", err)
		return err
	}
	e.logger.Info(ctx, "artifact delivered", "file", a.Filename)
	return nil
}

func (e *Exporter) logAssembled(ctx context.Context, owner string, a Artifact, sections []RenderedSection) {
	total := 0
	for _, s := range sections {
		total += s.ItemCount
	}
	e.logger.Info(ctx, "export assembled",
		"owner", owner,
		"file", a.Filename,
		"mime", a.MimeType,
		"items", total,
		"size", humanize.Bytes(uint64(len(a.Bytes))),
	)
}

func seal(a Artifact, passphrase []byte) (Artifact, error) {
	sealed, err := cryptox.Seal(passphrase, a.Bytes)
	if err != nil {
		return Artifact{}, fmt.Errorf("seal %s: %w", a.Filename, err)
	}
	return Artifact{Filename: a.Filename + ".enc", MimeType: MimeSealed, Bytes: sealed}, nil
}
