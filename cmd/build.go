package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	colorize "github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/otano/ankimath/internal/apkg"
	"github.com/otano/ankimath/internal/card"
	"github.com/otano/ankimath/internal/csvsource"
	"github.com/otano/ankimath/internal/deck"
	"github.com/otano/ankimath/internal/logging"
	"github.com/otano/ankimath/internal/output"
)

type buildOptions struct {
	Input       string
	Output      string
	Title       string
	Force       bool
	Interactive bool

	In      io.Reader
	Out     io.Writer
	Rand    *rand.Rand
	Package output.Packager
	Logger  *zap.Logger
}

type buildReport struct {
	Path    string
	DeckID  int64
	Notes   int
	Skipped int
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return fmt.Errorf("error creating logger: %v", err)
	}
	defer logger.Sync()

	force, _ := cmd.Flags().GetBool("force")
	opts := buildOptions{
		Input:       stringFlag(cmd, "input", cfg.Input),
		Output:      stringFlag(cmd, "output", cfg.Output),
		Title:       cfg.DeckTitle,
		Force:       force,
		Interactive: output.IsInteractive(os.Stdin),
		In:          os.Stdin,
		Out:         cmd.OutOrStdout(),
		Rand:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Package:     apkg.NewWriter(logger),
		Logger:      logger,
	}

	report, err := build(cmd.Context(), opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "%s Anki package '%s' created (%d notes",
		colorize.GreenString("✔"), report.Path, report.Notes)
	if report.Skipped > 0 {
		fmt.Fprintf(opts.Out, ", %d blank rows skipped", report.Skipped)
	}
	fmt.Fprintln(opts.Out, ")")
	return nil
}

// build reads the CSV, assembles the deck and writes it under the collision policy
func build(ctx context.Context, opts buildOptions) (*buildReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	model := card.MathModel()

	src, err := csvsource.Open(opts.Input, model)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if missing := src.MissingColumns(); len(missing) > 0 {
		logger.Warn("columns missing from CSV header, their fields will be empty",
			zap.String("input", opts.Input),
			zap.Strings("columns", missing))
	}

	d, err := deck.Assemble(model, opts.Title, opts.Rand, src)
	if err != nil {
		return nil, errors.WithMessage(err, opts.Input)
	}
	logger.Info("deck assembled",
		zap.Int64("deck_id", d.ID),
		zap.Int("rows", src.Rows()),
		zap.Int("notes", d.Len()),
		zap.Int("skipped", src.Skipped()))

	w := &output.Writer{
		Force:       opts.Force,
		Interactive: opts.Interactive,
		In:          opts.In,
		Out:         opts.Out,
		Package:     opts.Package,
		Logger:      logger,
	}
	if err := w.Write(ctx, d, opts.Output); err != nil {
		return nil, err
	}

	return &buildReport{
		Path:    opts.Output,
		DeckID:  d.ID,
		Notes:   d.Len(),
		Skipped: src.Skipped(),
	}, nil
}
