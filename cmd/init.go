package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	utils "github.com/KazanKK/sqtab/internal/utils"
	"github.com/urfave/cli/v2"
)

func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize sqtab configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db-path",
				Usage: "Path of the SQLite database file",
				Value: "database.db",
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory export writes to when no path is given",
				Value: "exports",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to write sqtab.yaml into",
				Value: ".",
			},
		},
		Action: func(c *cli.Context) error {
			dir := c.String("dir")
			configPath := filepath.Join(dir, utils.ConfigFileName)

			// An existing file keeps the values no flag overrides.
			config := utils.DefaultConfig()
			if _, err := os.Stat(configPath); err == nil {
				existing, err := utils.ParseConfigFile(configPath)
				if err != nil {
					return err
				}
				config = existing
			}
			if c.IsSet("db-path") || config.DBPath == "" {
				config.DBPath = c.String("db-path")
			}
			if c.IsSet("export-dir") || config.ExportDir == "" {
				config.ExportDir = c.String("export-dir")
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating config directory: %v", err)
			}
			if err := utils.WriteConfig(configPath, config); err != nil {
				return err
			}

			exportDir := config.ExportDir
			if !filepath.IsAbs(exportDir) {
				exportDir = filepath.Join(dir, exportDir)
			}
			if err := os.MkdirAll(exportDir, 0755); err != nil {
				return fmt.Errorf("creating export directory: %v", err)
			}

			fmt.Fprintf(c.App.Writer, "Created %s with database path: %s\n", configPath, config.DBPath)
			return nil
		},
	}
}
