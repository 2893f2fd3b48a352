// Package output decides whether a deck may be written to its destination and
// writes it. An existing file is only replaced with --force or after the
// operator confirms.
package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/otano/ankimath/internal/deck"
)

var (
	// ErrExistsNonInteractive is returned when the destination exists, --force
	// is not set and nobody can be asked
	ErrExistsNonInteractive = errors.New("output file already exists, use --force to overwrite")

	// ErrCancelled is returned when the operator declines to overwrite
	ErrCancelled = errors.New("operation cancelled, existing file preserved")

	// ErrWrite wraps any failure to serialize the deck to disk
	ErrWrite = errors.New("failed to write output file")
)

// State is a step of the collision policy
type State int

const (
	Check State = iota
	AbortExistsNonInteractive
	Prompt
	Write
)

func (s State) String() string {
	switch s {
	case Check:
		return "check"
	case AbortExistsNonInteractive:
		return "abort-exists-noninteractive"
	case Prompt:
		return "prompt"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Decide returns the state that follows Check
func Decide(exists, force, interactive bool) State {
	switch {
	case !exists, force:
		return Write
	case interactive:
		return Prompt
	default:
		return AbortExistsNonInteractive
	}
}

// Confirm writes question to out and reads one line from in. Only "y" or
// "yes", in any case, count as consent.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Packager serializes a deck to path
type Packager interface {
	Write(ctx context.Context, d *deck.Deck, path string) error
}

// Writer applies the collision policy before handing the deck to a Packager
type Writer struct {
	Force       bool
	Interactive bool
	In          io.Reader
	Out         io.Writer
	Package     Packager
	Logger      *zap.Logger
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Write runs the collision policy for path and, when allowed, writes d there
func (w *Writer) Write(ctx context.Context, d *deck.Deck, path string) error {
	exists, err := fileExists(path)
	if err != nil {
		return errors.Wrapf(ErrWrite, "%s: %v", path, err)
	}

	state := Decide(exists, w.Force, w.Interactive)
	w.logger().Debug("output collision check",
		zap.String("path", path),
		zap.Bool("exists", exists),
		zap.Bool("force", w.Force),
		zap.Bool("interactive", w.Interactive),
		zap.Stringer("next", state))

	switch state {
	case AbortExistsNonInteractive:
		return errors.Wrapf(ErrExistsNonInteractive, "%s", path)
	case Prompt:
		ok, err := Confirm(w.In, w.Out, fmt.Sprintf("File '%s' already exists. Overwrite?", path))
		if err != nil {
			return errors.Wrapf(ErrCancelled, "read answer: %v", err)
		}
		if !ok {
			return ErrCancelled
		}
	}

	if err := w.Package.Write(ctx, d, path); err != nil {
		return errors.Wrapf(ErrWrite, "%s: %v", path, err)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (w *Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
