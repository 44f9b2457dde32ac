package main

import (
	"fmt"
	"os"

	"github.com/KazanKK/sqtab/cmd"
	"github.com/fatih/color"
)

func main() {
	if err := cmd.NewApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
