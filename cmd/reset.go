package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// stdinIsTerminal reports whether confirmation can be asked for.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func ResetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete the database file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Do not ask for confirmation",
			},
		},
		Action: func(c *cli.Context) error {
			env, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer env.close()

			path := env.store.Path
			if !env.store.Exists() {
				fmt.Fprintf(c.App.Writer, "%s does not exist.\n", path)
				return nil
			}

			if !c.Bool("force") {
				if !stdinIsTerminal() {
					return fmt.Errorf("refusing to remove %s without --force on a non-interactive input", path)
				}
				fmt.Fprintf(c.App.Writer, "Remove %s and all its tables? [y/N] ", path)
				answer, _ := bufio.NewReader(c.App.Reader).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(c.App.Writer, "Aborted.")
					return nil
				}
			}

			removed, err := env.store.Remove()
			if err != nil {
				return fmt.Errorf("resetting database: %w", err)
			}
			if !removed {
				fmt.Fprintf(c.App.Writer, "%s does not exist.\n", path)
				return nil
			}
			env.log.Info("database reset", "path", path)
			fmt.Fprintf(c.App.Writer, "%s removed.\n", path)
			return nil
		},
	}
}
