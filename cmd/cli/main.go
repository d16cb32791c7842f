package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/buildinfo"
	"github.com/dmitrijs2005/couplespace/internal/client/cli"
	"github.com/dmitrijs2005/couplespace/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	opts, err := cli.ParseOptions(os.Args[1:], time.Now(), os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.Mode != cli.ModeOwner {
		buildinfo.PrintBuildData(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.NewApp(cfg, os.Stdout, os.Stdin)
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
