package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otano/ankimath/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GetConfigFilePath()
		}

		cfg, err := config.WriteDefault(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Config file initialized at:", path)
		fmt.Fprintf(out, "Default input: %s, output: %s, deck: %s\n", cfg.Input, cfg.Output, cfg.DeckTitle)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
