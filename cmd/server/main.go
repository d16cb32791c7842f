package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/couplespace/internal/buildinfo"
	"github.com/dmitrijs2005/couplespace/internal/flagx"
	"github.com/dmitrijs2005/couplespace/internal/server"
	"github.com/dmitrijs2005/couplespace/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	// -mint <owner> prints an access token for a couple space and exits.
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	mint := fs.String("mint", "", "issue an access token for this owner and exit")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"mint"})); err != nil {
		log.Fatalf("%v", err)
	}
	if *mint != "" {
		token, err := server.MintToken(cfg, *mint)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println(token)
		return
	}

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
