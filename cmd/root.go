package cmd

import (
	"github.com/spf13/cobra"

	"github.com/otano/ankimath/internal/config"
)

var (
	configPath string
	verbose    bool
)

// RootCmd converts a CSV file into an Anki package when called without subcommands
var RootCmd = &cobra.Command{
	Use:   "ankimath",
	Short: "Build an Anki deck of math flashcards from a CSV file",
	Long: `ankimath reads a CSV file of math formulas and writes an Anki package (.apkg).
Formulas are rendered by MathJax inside Anki.

The CSV needs a header row with the columns recto, versoSolution, versoInfo1
and versoInfo2 (case-sensitive). Missing columns are left empty and blank rows
are skipped.

Examples:
  ankimath
  ankimath --input trigo.csv --output trigo.apkg
  ankimath --output trigo.apkg --force`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/ankimath/config.toml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug diagnostics to stderr")

	RootCmd.Flags().StringP("input", "i", "formulas.csv", "CSV file to read")
	RootCmd.Flags().StringP("output", "o", "trigo_deck.apkg", "Anki package to write")
	RootCmd.Flags().BoolP("force", "f", false, "Overwrite the output file without asking")

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the file named by --config, or the default config file
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigFilePath()
	}
	return config.LoadConfig(path)
}

// stringFlag returns the flag value when set explicitly, fallback otherwise
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}
