// Package csvsource reads math flashcard rows from a CSV file and turns them
// into notes of the math card model.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/otano/ankimath/internal/card"
)

// Canonical CSV column names, matched case-sensitively, in model field order
const (
	ColumnRecto         = "recto"
	ColumnVersoSolution = "versoSolution"
	ColumnVersoInfo1    = "versoInfo1"
	ColumnVersoInfo2    = "versoInfo2"
)

// Columns lists the canonical columns in the order notes store them
var Columns = []string{ColumnRecto, ColumnVersoSolution, ColumnVersoInfo1, ColumnVersoInfo2}

var (
	// ErrInputNotFound is returned when the CSV file does not exist
	ErrInputNotFound = errors.New("input file not found")

	// ErrInputRead covers every other failure to open, decode or parse the CSV
	ErrInputRead = errors.New("CSV read error")
)

const bom = "\ufeff"

// Reader yields notes from a CSV file, one pass only
type Reader struct {
	file   *os.File
	csv    *csv.Reader
	model  card.Model
	header []string
	index  []int // canonical column -> header position, -1 when absent

	rows    int
	skipped int
	line    int
}

// Open opens path and reads its header row
func Open(path string, model card.Model) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrInputNotFound, "%s", path)
		}
		return nil, wrapRead(err, "open %s", path)
	}

	r, err := NewReader(f, model)
	if err != nil {
		f.Close()
		return nil, errors.WithMessage(err, path)
	}
	r.file = f
	return r, nil
}

// NewReader reads the header row from in. The caller owns in.
func NewReader(in io.Reader, model card.Model) (*Reader, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	// f"(x) and similar formulas carry bare quotes
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		header = nil
	} else if err != nil {
		return nil, wrapRead(err, "read header")
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	for _, h := range header {
		if !utf8.ValidString(h) {
			return nil, wrapRead(errors.New("invalid UTF-8"), "read header")
		}
	}

	r := &Reader{
		csv:    cr,
		model:  model,
		header: header,
		index:  make([]int, len(Columns)),
	}
	for i, col := range Columns {
		r.index[i] = -1
		for j, h := range header {
			if h == col {
				r.index[i] = j
				break
			}
		}
	}
	return r, nil
}

// Next returns the next non-blank note, or io.EOF once the file is exhausted
func (r *Reader) Next() (card.Note, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return card.Note{}, io.EOF
		}
		if err != nil {
			return card.Note{}, wrapRead(err, "parse row")
		}
		r.rows++
		r.line, _ = r.csv.FieldPos(0)

		for j, v := range record {
			if !utf8.ValidString(v) {
				line, _ := r.csv.FieldPos(j)
				return card.Note{}, wrapRead(errors.New("invalid UTF-8"), "line %d, column %q", line, r.columnName(j))
			}
		}

		values := make([]string, len(Columns))
		for i, pos := range r.index {
			if pos < 0 || pos >= len(record) {
				continue
			}
			values[i] = strings.TrimSpace(record[pos])
		}

		note := card.NewNote(r.model, values...)
		if note.Empty() {
			r.skipped++
			continue
		}
		return note, nil
	}
}

// Header returns the header row as read from the file
func (r *Reader) Header() []string {
	return append([]string(nil), r.header...)
}

// MissingColumns returns canonical columns absent from the header
func (r *Reader) MissingColumns() []string {
	var missing []string
	for i, pos := range r.index {
		if pos < 0 {
			missing = append(missing, Columns[i])
		}
	}
	return missing
}

// Rows returns the number of data rows read so far
func (r *Reader) Rows() int {
	return r.rows
}

// Line returns the file line where the last data row read starts
func (r *Reader) Line() int {
	return r.line
}

// Skipped returns the number of all-blank rows dropped so far
func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) columnName(pos int) string {
	if pos < len(r.header) {
		return r.header[pos]
	}
	return fmt.Sprintf("#%d", pos+1)
}

// Close closes the underlying file when the reader was built by Open
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// readError is an ErrInputRead carrying its cause
type readError struct {
	msg   string
	cause error
}

func (e *readError) Error() string {
	return ErrInputRead.Error() + ": " + e.msg + ": " + e.cause.Error()
}

func (e *readError) Unwrap() []error {
	return []error{ErrInputRead, e.cause}
}

func wrapRead(cause error, format string, args ...interface{}) error {
	return &readError{msg: fmt.Sprintf(format, args...), cause: cause}
}
