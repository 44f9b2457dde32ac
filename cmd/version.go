package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show the current sqtab version",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "sqtab version %s\n", Version)
			return nil
		},
	}
}
