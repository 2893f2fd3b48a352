package deck

import (
	"io"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/otano/ankimath/internal/card"
)

// DefaultTitle is the deck name shown in Anki
const DefaultTitle = "Trigonométrie via CSV"

// Deck ids are drawn from [MinID, MaxID) to stay clear of other decks
const (
	MinID int64 = 1 << 30
	MaxID int64 = 1 << 31
)

// Deck represents a titled collection of notes sharing one model
type Deck struct {
	ID    int64
	Title string
	Model card.Model

	notes []card.Note
}

// NoteSource yields notes until it returns io.EOF
type NoteSource interface {
	Next() (card.Note, error)
}

// NewID draws a deck id uniformly from [MinID, MaxID)
func NewID(rng *rand.Rand) int64 {
	return MinID + rng.Int64N(MaxID-MinID)
}

// New creates an empty deck with a random id
func New(model card.Model, title string, rng *rand.Rand) *Deck {
	return &Deck{
		ID:    NewID(rng),
		Title: title,
		Model: model,
	}
}

// Assemble creates a deck and attaches every note from src in arrival order
func Assemble(model card.Model, title string, rng *rand.Rand, src NoteSource) (*Deck, error) {
	d := New(model, title, rng)
	for {
		n, err := src.Next()
		if err == io.EOF {
			return d, nil
		}
		if err != nil {
			return nil, err
		}
		if err := d.Add(n); err != nil {
			return nil, err
		}
	}
}

// Add attaches a note. The note must be bound to the deck's model.
func (d *Deck) Add(n card.Note) error {
	if n.ModelID != d.Model.ID {
		return errors.Errorf("note bound to model %d, deck uses model %d", n.ModelID, d.Model.ID)
	}
	if len(n.Fields) != len(d.Model.Fields) {
		return errors.Errorf("note has %d fields, model %q expects %d", len(n.Fields), d.Model.Name, len(d.Model.Fields))
	}
	d.notes = append(d.notes, n)
	return nil
}

// Notes returns the deck's notes in insertion order
func (d *Deck) Notes() []card.Note {
	return append([]card.Note(nil), d.notes...)
}

// Len returns the number of notes
func (d *Deck) Len() int {
	return len(d.notes)
}
