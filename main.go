package main

import (
	"fmt"
	"os"

	colorize "github.com/fatih/color"

	"github.com/otano/ankimath/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize.RedString("Error:"), err)
		os.Exit(1)
	}
}
