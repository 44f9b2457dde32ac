package cmd

import (
	"fmt"

	db "github.com/KazanKK/sqtab/database"

	"github.com/urfave/cli/v2"
)

func TablesCommand() *cli.Command {
	return &cli.Command{
		Name:  "tables",
		Usage: "List tables in the database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "counts",
				Usage: "Show the row count of each table",
			},
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer env.close()

			inspector := db.NewInspector(env.store)
			tables, err := inspector.Tables(c.Context)
			if err != nil {
				return fmt.Errorf("listing tables: %w", err)
			}
			env.log.Info("tables listed", "count", len(tables))

			if len(tables) == 0 {
				fmt.Fprintln(c.App.Writer, "No tables found.")
				return nil
			}

			withCounts := c.Bool("counts")
			header := []string{"Table Name"}
			if withCounts {
				header = append(header, "Rows")
			}
			table := newTable(c, header...)
			for _, name := range tables {
				row := []string{name}
				if withCounts {
					n, err := inspector.RowCount(c.Context, name)
					if err != nil {
						return fmt.Errorf("counting rows of %s: %w", name, err)
					}
					row = append(row, fmt.Sprint(n))
				}
				table.Append(row)
			}
			table.Render()
			return nil
		},
	}
}
