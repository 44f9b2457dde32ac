package cmd

import (
	"fmt"

	db "github.com/KazanKK/sqtab/database"

	"github.com/urfave/cli/v2"
)

func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a CSV or JSON file into a table",
		ArgsUsage: "<path> <table>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2, 2, "<path> <table>"); err != nil {
				return err
			}
			path, table := c.Args().Get(0), c.Args().Get(1)

			env, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer env.close()

			rows, err := db.NewImporter(env.store).ImportFile(c.Context, path, table)
			if err != nil {
				env.log.Error("import failed", "path", path, "table", table, "error", err)
				return fmt.Errorf("importing %s: %w", path, err)
			}
			env.log.Info("import", "path", path, "table", table, "rows", rows)

			fmt.Fprintf(c.App.Writer, "Imported %d rows into %s.\n", rows, table)
			return nil
		},
	}
}
