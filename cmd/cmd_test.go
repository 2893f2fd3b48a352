package cmd

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/otano/ankimath/internal/apkg"
	"github.com/otano/ankimath/internal/csvsource"
	"github.com/otano/ankimath/internal/deck"
	"github.com/otano/ankimath/internal/output"
	"github.com/otano/ankimath/internal/validator"
)

const sampleCSV = "recto,versoSolution,versoInfo1,versoInfo2\n" +
	"sin(x),cos(x)... ,note1,\n" +
	" , , , \n" +
	`\cos(2x),\cos^2 x - \sin^2 x,double angle,` + "\n"

func testOptions(t *testing.T, input, out string) buildOptions {
	t.Helper()

	return buildOptions{
		Input:   input,
		Output:  out,
		Title:   deck.DefaultTitle,
		In:      strings.NewReader(""),
		Out:     &bytes.Buffer{},
		Rand:    rand.New(rand.NewPCG(3, 4)),
		Package: apkg.NewWriter(zap.NewNop()),
		Logger:  zap.NewNop(),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", sampleCSV)
	out := filepath.Join(dir, "trigo_deck.apkg")

	report, err := build(context.Background(), testOptions(t, input, out))
	require.NoError(t, err)
	assert.Equal(t, out, report.Path)
	assert.Equal(t, 2, report.Notes)
	assert.Equal(t, 1, report.Skipped)
	assert.GreaterOrEqual(t, report.DeckID, deck.MinID)
	assert.Less(t, report.DeckID, deck.MaxID)

	p, err := apkg.Read(context.Background(), out)
	require.NoError(t, err)
	require.Len(t, p.Notes, 2)
	assert.Equal(t, []string{"sin(x)", "cos(x)...", "note1", ""}, p.Notes[0].Fields)
	assert.Equal(t, []string{`\cos(2x)`, `\cos^2 x - \sin^2 x`, "double angle", ""}, p.Notes[1].Fields)
}

func TestBuildMissingInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "trigo_deck.apkg")

	_, err := build(context.Background(), testOptions(t, filepath.Join(dir, "missing.csv"), out))
	assert.True(t, errors.Is(err, csvsource.ErrInputNotFound))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestBuildUnreadableInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", "recto,versoSolution\nbad\xff,x\n")
	out := filepath.Join(dir, "trigo_deck.apkg")

	_, err := build(context.Background(), testOptions(t, input, out))
	assert.True(t, errors.Is(err, csvsource.ErrInputRead))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestBuildInvalidUTF8InExtraColumnWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", "recto,versoSolution,comment\nsin(x),cos(x),bad\xff\n")
	out := filepath.Join(dir, "trigo_deck.apkg")

	_, err := build(context.Background(), testOptions(t, input, out))
	assert.True(t, errors.Is(err, csvsource.ErrInputRead))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestBuildExistingOutputNonInteractive(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", sampleCSV)
	out := writeFile(t, dir, "trigo_deck.apkg", "previous deck")

	_, err := build(context.Background(), testOptions(t, input, out))
	assert.True(t, errors.Is(err, output.ErrExistsNonInteractive))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous deck", string(data))
}

func TestBuildExistingOutputForce(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", sampleCSV)
	out := writeFile(t, dir, "trigo_deck.apkg", "previous deck")

	opts := testOptions(t, input, out)
	opts.Force = true
	_, err := build(context.Background(), opts)
	require.NoError(t, err)

	p, err := apkg.Read(context.Background(), out)
	require.NoError(t, err)
	assert.Len(t, p.Notes, 2)
}

func TestBuildExistingOutputPrompt(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", sampleCSV)
	out := writeFile(t, dir, "trigo_deck.apkg", "previous deck")

	opts := testOptions(t, input, out)
	opts.Interactive = true
	opts.In = strings.NewReader("no\n")
	_, err := build(context.Background(), opts)
	assert.True(t, errors.Is(err, output.ErrCancelled))

	opts.In = strings.NewReader("Y\n")
	_, err = build(context.Background(), opts)
	require.NoError(t, err)
}

func TestBuildTwiceKeepsModelAndTitle(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", sampleCSV)

	first := testOptions(t, input, filepath.Join(dir, "a.apkg"))
	second := testOptions(t, input, filepath.Join(dir, "b.apkg"))
	second.Rand = rand.New(rand.NewPCG(5, 6))

	a, err := build(context.Background(), first)
	require.NoError(t, err)
	b, err := build(context.Background(), second)
	require.NoError(t, err)
	assert.NotEqual(t, a.DeckID, b.DeckID)

	pa, err := apkg.Read(context.Background(), a.Path)
	require.NoError(t, err)
	pb, err := apkg.Read(context.Background(), b.Path)
	require.NoError(t, err)
	assert.Equal(t, pa.Models[0].ID, pb.Models[0].ID)

	da, _ := pa.Deck()
	db, _ := pb.Deck()
	assert.Equal(t, da.Name, db.Name)
	assert.Equal(t, pa.Notes[0].GUID, pb.Notes[0].GUID)
}

func TestPrintResults(t *testing.T) {
	var out bytes.Buffer
	err := printResults(&out, "formulas.csv", validator.ValidationResults{
		Rows:     3,
		Notes:    2,
		Warnings: []string{"1 blank row(s) will be skipped"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "'formulas.csv' is valid: 3 rows, 2 notes")
	assert.Contains(t, out.String(), "1. 1 blank row(s) will be skipped")

	out.Reset()
	err = printResults(&out, "formulas.csv", validator.ValidationResults{Errors: []string{"boom"}})
	assert.Error(t, err)
	assert.Contains(t, out.String(), "1 validation errors")
}

func TestDisplayPackage(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "formulas.csv", sampleCSV)
	out := filepath.Join(dir, "trigo_deck.apkg")
	_, err := build(context.Background(), testOptions(t, input, out))
	require.NoError(t, err)

	p, err := apkg.Read(context.Background(), out)
	require.NoError(t, err)

	var buf bytes.Buffer
	displayPackage(&buf, p, 80, 1)
	text := buf.String()
	assert.Contains(t, text, deck.DefaultTitle)
	assert.Contains(t, text, "math_formulae")
	assert.Contains(t, text, "Recto:")
	assert.Contains(t, text, "sin(x)")
	assert.Contains(t, text, "... 1 more notes")
	assert.NotContains(t, text, "double angle")
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{""}, wrapText("   ", 20))
	assert.Equal(t, []string{"a b c"}, wrapText("a b c", 20))
	assert.Equal(t, []string{"alpha beta", "gamma"}, wrapText("alpha beta gamma", 10))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ankimath", "config.toml")

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"init", "--config", path})
	defer func() {
		RootCmd.SetArgs(nil)
		RootCmd.SetOut(nil)
		configPath = ""
	}()

	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), path)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestExecuteRejectsPositionalArgs(t *testing.T) {
	RootCmd.SetArgs([]string{"formulas.csv"})
	defer RootCmd.SetArgs(nil)

	assert.Error(t, Execute())
}
