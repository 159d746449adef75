package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/trailkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path of the local SQLite store
//	-r string   Postgres DSN of the remote store
//	-s          enable outbound sync
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local database")
	fs.StringVar(&cfg.RemoteDSN, "r", cfg.RemoteDSN, "remote store DSN")
	fs.BoolVar(&cfg.SyncEnabled, "s", cfg.SyncEnabled, "enable outbound sync")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
