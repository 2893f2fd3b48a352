package card

import "strings"

// ModelID identifies the math card model inside Anki. It must never change:
// Anki merges regenerated decks with earlier imports by model id.
const ModelID int64 = 1607392319

// ModelName is the note type name shown in Anki
const ModelName = "math_formulae"

// Field names, in the order notes carry their values
const (
	FieldRecto         = "Recto"
	FieldVersoSolution = "VersoSolution"
	FieldVersoInfo1    = "VersoInfo1"
	FieldVersoInfo2    = "VersoInfo2"
)

// Template is one card layout of a model
type Template struct {
	Name string
	QFmt string // Question side HTML
	AFmt string // Answer side HTML
}

// Model represents the card template shared by every note of a deck
type Model struct {
	ID        int64
	Name      string
	Fields    []string
	Templates []Template
	CSS       string
}

const css = `.card {
 font-family: arial;
 font-size: 20px;
 text-align: center;
 color: black;
 background-color: white;
}
.latex {
 font-size: 1.5em;
}

.mjx-mi { color: red; }     /* variables */
.mjx-mn { color: green; }   /* numbers */
.mjx-mo { color: blue; }    /* operators */
`

// MathModel returns the math flashcard model. Each call returns a fresh copy.
func MathModel() Model {
	return Model{
		ID:   ModelID,
		Name: ModelName,
		Fields: []string{
			FieldRecto,
			FieldVersoSolution,
			FieldVersoInfo1,
			FieldVersoInfo2,
		},
		Templates: []Template{
			{
				Name: "math",
				QFmt: `<div class="latex">\({{Recto}}\)</div>`,
				AFmt: `{{FrontSide}}<hr id="answer">` +
					`<div class="latex">\({{VersoSolution}}\)</div>` +
					infoLine(FieldVersoInfo1) +
					infoLine(FieldVersoInfo2),
			},
		},
		CSS: css,
	}
}

// infoLine renders an auxiliary field in small text, only when it is set
func infoLine(field string) string {
	return "{{#" + field + "}}<br><small>{{" + field + "}}</small>{{/" + field + "}}"
}

// FieldIndex returns the position of the named field, or -1
func (m Model) FieldIndex(name string) int {
	for i, f := range m.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Note is one flashcard's field values, bound to a model
type Note struct {
	ModelID int64
	Fields  []string
}

// NewNote binds values to the model. Missing trailing values become empty
// strings and extra values are dropped, so the note always matches the
// model's field count.
func NewNote(m Model, values ...string) Note {
	fields := make([]string, len(m.Fields))
	copy(fields, values)
	return Note{ModelID: m.ID, Fields: fields}
}

// Empty reports whether every field is blank
func (n Note) Empty() bool {
	for _, f := range n.Fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
