package cmd

import (
	"fmt"
	"strings"

	db "github.com/KazanKK/sqtab/database"

	"github.com/urfave/cli/v2"
)

func SQLCommand() *cli.Command {
	return &cli.Command{
		Name:      "sql",
		Usage:     "Execute a raw SQL statement",
		ArgsUsage: "<query>",
		Description: "Row-returning statements print a table of results. Anything else prints\n" +
			"the number of rows affected.",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return requireArgs(c, 1, 1, "<query>")
			}
			query := strings.Join(c.Args().Slice(), " ")

			env, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer env.close()

			result, err := db.NewInspector(env.store).Exec(c.Context, query)
			if err != nil {
				env.log.Error("sql failed", "query", query, "error", err)
				return fmt.Errorf("executing SQL: %w", err)
			}
			env.log.Info("sql executed", "query", query, "rows", len(result.Rows), "affected", result.RowsAffected)

			if !result.IsQuery {
				fmt.Fprintf(c.App.Writer, "Query executed. Rows affected: %d\n", result.RowsAffected)
				return nil
			}
			if len(result.Rows) == 0 {
				fmt.Fprintln(c.App.Writer, "No rows returned.")
				return nil
			}

			table := newTable(c, result.Columns...)
			for _, row := range result.Rows {
				table.Append(valueStrings(row))
			}
			table.Render()
			return nil
		},
	}
}
