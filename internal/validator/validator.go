package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/otano/ankimath/internal/card"
	"github.com/otano/ankimath/internal/csvsource"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string

	Rows    int // Data rows read
	Notes   int // Notes that would be created
	Skipped int // Blank rows dropped
}

type Validator struct {
	CSVPath string
	Model   card.Model
	Results ValidationResults
}

func NewValidator(csvPath string) *Validator {
	return &Validator{
		CSVPath: csvPath,
		Model:   card.MathModel(),
		Results: ValidationResults{},
	}
}

// Validate reads the whole CSV without writing anything. Problems with the
// content are reported in the results; the error is only set when the file
// cannot be opened at all.
func (v *Validator) Validate() (ValidationResults, error) {
	r, err := csvsource.Open(v.CSVPath, v.Model)
	if err != nil {
		if errors.Is(err, csvsource.ErrInputNotFound) {
			return v.Results, err
		}
		v.Results.Errors = append(v.Results.Errors, err.Error())
		return v.Results, nil
	}
	defer r.Close()

	v.validateHeader(r.Header(), r.MissingColumns())
	v.validateRows(r)

	return v.Results, nil
}

// validateHeader checks the header against the canonical columns
func (v *Validator) validateHeader(header, missing []string) {
	if len(missing) == len(csvsource.Columns) {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("no known column in header (expecting %s)", strings.Join(csvsource.Columns, ", ")))
		return
	}

	for _, col := range missing {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("column %q not found, its field will be empty", col))
	}

	known := make(map[string]bool)
	for _, col := range csvsource.Columns {
		known[col] = true
	}
	for _, h := range header {
		if known[h] {
			continue
		}
		if hint := caseMatch(h); hint != "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("column %q ignored, did you mean %q? (names are case-sensitive)", h, hint))
		} else {
			v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf("column %q ignored", h))
		}
	}
}

// validateRows reads every row, flagging notes Anki would turn into no card
func (v *Validator) validateRows(r *csvsource.Reader) {
	for {
		n, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			v.Results.Errors = append(v.Results.Errors, err.Error())
			break
		}
		v.Results.Notes++

		if n.Fields[v.Model.FieldIndex(card.FieldRecto)] == "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("line %d: recto is empty, no card will be generated for this note", r.Line()))
		}
	}

	v.Results.Rows = r.Rows()
	v.Results.Skipped = r.Skipped()
	if v.Results.Skipped > 0 {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("%d blank row(s) will be skipped", v.Results.Skipped))
	}
}

// caseMatch returns the canonical column equal to name ignoring case
func caseMatch(name string) string {
	for _, col := range csvsource.Columns {
		if strings.EqualFold(col, name) {
			return col
		}
	}
	return ""
}
