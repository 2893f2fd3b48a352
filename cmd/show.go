package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/otano/ankimath/internal/apkg"
)

var showCmd = &cobra.Command{
	Use:   "show [apkg]",
	Short: "Display the deck and notes stored in an Anki package",
	Long: `Show opens an Anki package (.apkg) and prints its deck, note type and notes.
Without an argument the configured output file is shown.

Examples:
  ankimath show
  ankimath show trigo.apkg --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkgPath := ""
		if len(args) == 1 {
			pkgPath = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pkgPath = cfg.Output
		}

		if _, err := os.Stat(pkgPath); os.IsNotExist(err) {
			return fmt.Errorf("package not found: %s", pkgPath)
		}

		p, err := apkg.Read(cmd.Context(), pkgPath)
		if err != nil {
			return fmt.Errorf("error reading package: %v", err)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		displayPackage(cmd.OutOrStdout(), p, terminalWidth(), limit)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().IntP("limit", "n", 0, "Show at most this many notes (0 shows all)")
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return width
}

// displayPackage prints the deck summary followed by each note's fields
func displayPackage(out io.Writer, p *apkg.Package, width, limit int) {
	label := colorize.New(colorize.FgCyan).SprintFunc()
	value := colorize.New(colorize.FgHiWhite).SprintFunc()

	if d, ok := p.Deck(); ok {
		fmt.Fprintln(out, label("Deck:  ")+value(d.Name))
		fmt.Fprintln(out, label("ID:    ")+value(d.ID))
	}

	fieldNames := map[int64][]string{}
	for _, m := range p.Models {
		fmt.Fprintln(out, label("Model: ")+value(fmt.Sprintf("%s (%d)", m.Name, m.ID)))
		fmt.Fprintln(out, label("Fields: ")+value(strings.Join(m.Fields, ", ")))
		fieldNames[m.ID] = m.Fields
	}
	fmt.Fprintln(out, label("Notes: ")+value(len(p.Notes))+label("  Cards: ")+value(p.Cards))

	// Leave room for the indent and the longest field label
	textWidth := width - 4 - longestName(fieldNames) - 2
	if textWidth < 20 {
		textWidth = 20
	}

	for i, n := range p.Notes {
		if limit > 0 && i >= limit {
			fmt.Fprintf(out, "\n... %d more notes\n", len(p.Notes)-limit)
			break
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, colorize.YellowString("#%d", i+1))

		names := fieldNames[n.ModelID]
		pad := longestName(fieldNames)
		for j, f := range n.Fields {
			if f == "" {
				continue
			}
			name := fmt.Sprintf("field %d", j+1)
			if j < len(names) {
				name = names[j]
			}
			for k, line := range wrapText(f, textWidth) {
				prefix := strings.Repeat(" ", pad+2)
				if k == 0 {
					gap := pad - len(name) + 1
					if gap < 1 {
						gap = 1
					}
					prefix = label(name+":") + strings.Repeat(" ", gap)
				}
				fmt.Fprintln(out, "  "+prefix+line)
			}
		}
	}
}

func longestName(fields map[int64][]string) int {
	longest := 0
	for _, names := range fields {
		for _, n := range names {
			if len(n) > longest {
				longest = len(n)
			}
		}
	}
	return longest
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	// Ensure width is reasonable
	if width < 10 {
		width = 40
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}
