package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/flagx"
)

type Mode string

const (
	ModeAll    Mode = "all"
	ModeMonth  Mode = "month"
	ModeReport Mode = "report"
	ModeImport Mode = "import"
	ModeOpen   Mode = "open"
	ModeOwner  Mode = "owner"
)

// Options are the command flags of one CLI invocation.
type Options struct {
	Mode    Mode
	Format  export.Format
	Year    int
	Month   int
	In      string
	Replace bool
	Yes     bool
	Seal    bool
	Remote  bool
	Demo    bool
}

var (
	commandValueFlags = []string{"mode", "format", "year", "month", "in"}
	commandBoolFlags  = []string{"replace", "yes", "seal", "remote", "demo"}
)

// ParseOptions reads the command flags out of args, ignoring the config
// flags. Year and month default to the previous month relative to now, the
// usual target of a monthly backup.
func ParseOptions(args []string, now time.Time, errOut io.Writer) (Options, error) {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)

	var (
		o      Options
		mode   string
		format string
	)
	fs := flag.NewFlagSet("couplespace", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&mode, "mode", string(ModeMonth), "all|month|report|import|open|owner")
	fs.StringVar(&format, "format", string(export.FormatJSON), "json|markdown (mode all)")
	fs.IntVar(&o.Year, "year", prev.Year(), "year of the backup or report")
	fs.IntVar(&o.Month, "month", int(prev.Month()), "month of the backup (1-12)")
	fs.StringVar(&o.In, "in", "", "input file (modes import and open)")
	fs.BoolVar(&o.Replace, "replace", false, "replace the journal contents on import")
	fs.BoolVar(&o.Yes, "yes", false, "do not ask for confirmation")
	fs.BoolVar(&o.Seal, "seal", false, "encrypt the monthly backup with a passphrase")
	fs.BoolVar(&o.Remote, "remote", false, "export from the server instead of the local journal")
	fs.BoolVar(&o.Demo, "demo", false, "export built-in sample data")

	if err := fs.Parse(flagx.FilterArgs(args, commandValueFlags, commandBoolFlags...)); err != nil {
		return Options{}, err
	}

	o.Mode = Mode(mode)
	switch o.Mode {
	case ModeAll, ModeMonth, ModeReport, ModeOwner:
	case ModeImport, ModeOpen:
		if o.In == "" {
			return Options{}, fmt.Errorf("mode %s needs -in", o.Mode)
		}
	default:
		return Options{}, fmt.Errorf("unknown mode %q", mode)
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return Options{}, err
	}
	o.Format = f

	if o.Seal && o.Mode != ModeMonth {
		return Options{}, errors.New("-seal only applies to -mode month")
	}
	if o.Remote && o.Demo {
		return Options{}, errors.New("-remote and -demo are mutually exclusive")
	}
	return o, nil
}
