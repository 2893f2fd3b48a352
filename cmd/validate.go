package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/otano/ankimath/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [csv]",
	Short: "Check a CSV file without writing a deck",
	Long: `Validate reads a CSV file the same way the conversion does and reports
problems: unknown or missing columns, blank rows and notes without a recto.
Nothing is written. Without an argument the configured input file is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath := ""
		if len(args) == 1 {
			csvPath = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			csvPath = cfg.Input
		}

		v := validator.NewValidator(csvPath)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %v", err)
		}

		return printResults(cmd.OutOrStdout(), csvPath, results)
	},
}

// printResults displays validation results, failing when errors were found
func printResults(out io.Writer, csvPath string, results validator.ValidationResults) error {
	fmt.Fprintln(out, "Validation Results:")
	fmt.Fprintln(out, "-------------------")

	if len(results.Errors) == 0 {
		fmt.Fprintf(out, "✅ '%s' is valid: %d rows, %d notes.\n", csvPath, results.Rows, results.Notes)
	} else {
		fmt.Fprintf(out, "❌ '%s' has %d validation errors:\n", csvPath, len(results.Errors))
		for i, err := range results.Errors {
			fmt.Fprintf(out, "%d. %s\n", i+1, err)
		}
	}

	if len(results.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for i, warn := range results.Warnings {
			fmt.Fprintf(out, "%d. %s\n", i+1, warn)
		}
	}

	if len(results.Errors) > 0 {
		return fmt.Errorf("validation failed")
	}
	return nil
}
