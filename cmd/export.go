package cmd

import (
	"fmt"

	db "github.com/KazanKK/sqtab/database"
	utils "github.com/KazanKK/sqtab/internal/utils"

	"github.com/urfave/cli/v2"
)

func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a table to CSV or JSON",
		ArgsUsage: "<table> [path]",
		Description: "The format follows the extension of path (.csv or .json). Without a path\n" +
			"the table is written to <export_dir>/<table>.csv.",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, 2, "<table> [path]"); err != nil {
				return err
			}
			table := c.Args().Get(0)

			env, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer env.close()

			path := c.Args().Get(1)
			if path == "" {
				path = utils.GetExportPath(env.config.ExportDir, table)
			}

			rows, err := db.NewExporter(env.store).Export(c.Context, table, path)
			if err != nil {
				env.log.Error("export failed", "path", path, "table", table, "error", err)
				return fmt.Errorf("exporting %s: %w", table, err)
			}
			env.log.Info("export", "path", path, "table", table, "rows", rows)

			fmt.Fprintf(c.App.Writer, "Exported %d rows to %s.\n", rows, path)
			return nil
		},
	}
}
