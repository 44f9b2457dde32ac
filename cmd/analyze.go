package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/KazanKK/sqtab/analyzer"
	db "github.com/KazanKK/sqtab/database"

	"github.com/urfave/cli/v2"
)

type analyzeOutput struct {
	*analyzer.Summary
	Interpretation string `json:"interpretation,omitempty"`
}

func AnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Summarize a table, optionally with an AI interpretation",
		ArgsUsage: "<table>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ai",
				Usage: "Ask the configured model to interpret the table (needs OPENAI_API_KEY)",
			},
			&cli.StringSliceFlag{
				Name:  "task",
				Usage: "Task for the model, repeatable (replaces the default tasks)",
			},
			&cli.StringSliceFlag{
				Name:  "rule",
				Usage: "Rule for the model, repeatable (replaces the default rules)",
			},
			&cli.BoolFlag{
				Name:  "prompt",
				Usage: "Print the prompt instead of sending it",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the summary as JSON",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "OpenAI API key",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, 1, "<table>"); err != nil {
				return err
			}
			table := c.Args().Get(0)

			env, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer env.close()

			summary, err := analyzer.Analyze(c.Context, db.NewInspector(env.store), table)
			if err != nil {
				env.log.Error("analyze failed", "table", table, "error", err)
				return fmt.Errorf("analyzing %s: %w", table, err)
			}
			env.log.Info("analyze", "table", table, "rows", summary.RowCount, "columns", summary.ColumnCount)

			prompt := analyzer.BuildPrompt(summary, c.StringSlice("task"), c.StringSlice("rule"))
			if c.Bool("prompt") {
				fmt.Fprint(c.App.Writer, prompt)
				return nil
			}

			out := analyzeOutput{Summary: summary}
			if c.Bool("ai") {
				client := analyzer.NewClient(analyzer.ClientConfig{
					APIKey:  c.String("api-key"),
					Model:   env.config.AI.Model,
					BaseURL: env.config.AI.BaseURL,
				})
				out.Interpretation, err = client.Interpret(c.Context, prompt)
				if err != nil {
					env.log.Error("ai interpretation failed", "table", table, "error", err)
					return fmt.Errorf("interpreting %s: %w", table, err)
				}
				env.log.Info("ai interpretation", "table", table, "model", env.config.AI.Model, "available", client != nil)
			}

			if c.Bool("json") {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding summary: %v", err)
				}
				fmt.Fprintln(c.App.Writer, string(data))
				return nil
			}

			printSummary(c, summary)
			if out.Interpretation != "" {
				fmt.Fprintf(c.App.Writer, "\n%s\n", out.Interpretation)
			}
			return nil
		},
	}
}

func printSummary(c *cli.Context, s *analyzer.Summary) {
	w := c.App.Writer
	fmt.Fprintf(w, "Table: %s\n", s.Table)
	fmt.Fprintf(w, "Rows: %d\n", s.RowCount)
	fmt.Fprintf(w, "Columns: %d\n\n", s.ColumnCount)

	schema := newTable(c, "Name", "Type", "Not Null", "Primary Key")
	for _, col := range s.Schema {
		schema.Append([]string{col.Name, col.Type, fmt.Sprint(col.NotNull), fmt.Sprint(col.PrimaryKey)})
	}
	schema.Render()

	if len(s.Samples) == 0 {
		fmt.Fprintln(w, "\nNo sample rows available.")
		return
	}
	fmt.Fprintln(w)
	samples := newTable(c, s.Samples[0].Keys...)
	for _, rec := range s.Samples {
		samples.Append(valueStrings(rec.Values))
	}
	samples.Render()
}
