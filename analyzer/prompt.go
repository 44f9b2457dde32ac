package analyzer

import (
	"fmt"
	"strings"

	db "github.com/KazanKK/sqtab/database"
)

var DefaultTasks = []string{
	"Describe the purpose of this table.",
	"Interpret column meanings.",
	"Identify potential data issues (nulls, outliers, inconsistencies).",
	"Suggest 3-5 useful SQL queries for exploring this data.",
}

var DefaultRules = []string{
	"Respond using clean and properly structured Markdown.",
	"SQL queries must be valid SQLite syntax.",
	"Do not invent columns or data that do not exist.",
	"Be analytical, factual, and concise.",
}

// RenderSchemaMarkdown renders the column list as a Markdown table.
func RenderSchemaMarkdown(columns []db.Column) string {
	lines := []string{
		"| Name | Type | Not Null | Primary Key |",
		"|---|---|---|---|",
	}
	for _, c := range columns {
		lines = append(lines, fmt.Sprintf("| %s | %s | %t | %t |", c.Name, c.Type, c.NotNull, c.PrimaryKey))
	}
	return strings.Join(lines, "\n")
}

// RenderSamplesMarkdown renders up to SampleSize rows as a Markdown table.
func RenderSamplesMarkdown(samples []db.Record) string {
	if len(samples) == 0 {
		return "_No sample rows available_"
	}

	columns := samples[0].Keys
	sep := make([]string, len(columns))
	for i := range sep {
		sep[i] = "---"
	}
	lines := []string{
		"| " + strings.Join(columns, " | ") + " |",
		"| " + strings.Join(sep, " | ") + " |",
	}

	for i, rec := range samples {
		if i == SampleSize {
			break
		}
		cells := make([]string, len(rec.Values))
		for j, v := range rec.Values {
			if v.IsNull() {
				cells[j] = "NULL"
				continue
			}
			cells[j] = v.String()
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt assembles the request sent to the model. Empty tasks or rules
// fall back to DefaultTasks and DefaultRules.
func BuildPrompt(s *Summary, tasks, rules []string) string {
	if len(tasks) == 0 {
		tasks = DefaultTasks
	}
	if len(rules) == 0 {
		rules = DefaultRules
	}

	var b strings.Builder
	b.WriteString("You are a senior data analyst helping a user understand SQLite data.\n\n")
	section(&b, "TABLE NAME", s.Table)
	section(&b, "SCHEMA", RenderSchemaMarkdown(s.Schema))
	section(&b, "SAMPLE ROWS", RenderSamplesMarkdown(s.Samples))
	section(&b, "TASKS", bullets(tasks))
	section(&b, "RULES", bullets(rules))
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "## %s\n%s\n\n", title, body)
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
