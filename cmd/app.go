package cmd

import (
	"github.com/urfave/cli/v2"
)

// NewApp assembles the sqtab command line.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "sqtab",
		Usage:   "Minimal CLI for tabular data (CSV/JSON + SQLite)",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path of the SQLite database file (overrides db_path)",
				EnvVars: []string{"SQTAB_DB"},
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path of the config file (default: nearest sqtab.yaml)",
			},
		},
		Commands: []*cli.Command{
			VersionCommand(),
			InitCommand(),
			ImportCommand(),
			ExportCommand(),
			SQLCommand(),
			TablesCommand(),
			AnalyzeCommand(),
			ResetCommand(),
		},
	}
}
