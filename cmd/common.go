package cmd

import (
	"fmt"
	"log/slog"

	db "github.com/KazanKK/sqtab/database"
	"github.com/KazanKK/sqtab/internal/logging"
	utils "github.com/KazanKK/sqtab/internal/utils"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

// Version is reported by the version command.
var Version = "0.0.1"

// env is what every command needs: the resolved config, the store and a
// logger for this run.
type env struct {
	config *utils.Config
	store  *db.Store
	log    *slog.Logger
	close  func()
}

// loadEnv resolves the config for c, applies the --db override and sets up
// logging. Callers must defer env.close.
func loadEnv(c *cli.Context) (*env, error) {
	config, err := utils.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %v", err)
	}
	if path := c.String("db"); path != "" {
		config.DBPath = path
	}

	logger, closeLog, err := logging.Setup(logging.Options{
		Path:   config.LogPath,
		SeqURL: config.SeqURL,
		Level:  slog.LevelInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %v", err)
	}
	logger = logger.With("command", c.Command.Name)

	return &env{
		config: config,
		store:  db.NewStore(config.DBPath),
		log:    logger,
		close:  closeLog,
	}, nil
}

// newTable returns a borderless console table writing to c's output.
func newTable(c *cli.Context, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func valueStrings(values []db.Value) []string {
	cells := make([]string, len(values))
	for i, v := range values {
		if v.IsNull() {
			cells[i] = "NULL"
			continue
		}
		cells[i] = v.String()
	}
	return cells
}

func requireArgs(c *cli.Context, minArgs, maxArgs int, usage string) error {
	n := c.NArg()
	if n < minArgs || n > maxArgs {
		return fmt.Errorf("usage: sqtab %s %s", c.Command.Name, usage)
	}
	return nil
}
