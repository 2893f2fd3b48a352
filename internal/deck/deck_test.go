package deck

import (
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otano/ankimath/internal/card"
	"github.com/otano/ankimath/internal/csvsource"
)

type sliceSource struct {
	notes []card.Note
	err   error
}

func (s *sliceSource) Next() (card.Note, error) {
	if len(s.notes) == 0 {
		if s.err != nil {
			return card.Note{}, s.err
		}
		return card.Note{}, io.EOF
	}
	n := s.notes[0]
	s.notes = s.notes[1:]
	return n, nil
}

func TestNewIDRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10000; i++ {
		id := NewID(rng)
		require.GreaterOrEqual(t, id, MinID)
		require.Less(t, id, MaxID)
	}
}

func TestAssembleKeepsOrder(t *testing.T) {
	m := card.MathModel()
	src := &sliceSource{notes: []card.Note{
		card.NewNote(m, "a"),
		card.NewNote(m, "b"),
		card.NewNote(m, "c"),
	}}

	d, err := Assemble(m, DefaultTitle, rand.New(rand.NewPCG(1, 2)), src)
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, d.Title)
	assert.Equal(t, 3, d.Len())
	var recto []string
	for _, n := range d.Notes() {
		recto = append(recto, n.Fields[0])
	}
	assert.Equal(t, []string{"a", "b", "c"}, recto)
}

func TestAssembleTwiceSameModelDifferentID(t *testing.T) {
	m := card.MathModel()
	in := "recto,versoSolution,versoInfo1,versoInfo2\nsin(x),cos(x),,\n"

	build := func(seed uint64) *Deck {
		r, err := csvsource.NewReader(strings.NewReader(in), m)
		require.NoError(t, err)
		d, err := Assemble(m, DefaultTitle, rand.New(rand.NewPCG(seed, seed)), r)
		require.NoError(t, err)
		return d
	}

	a, b := build(1), build(2)
	assert.Equal(t, a.Model.ID, b.Model.ID)
	assert.Equal(t, a.Title, b.Title)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Notes(), b.Notes())
}

func TestAssemblePropagatesSourceError(t *testing.T) {
	m := card.MathModel()
	boom := errors.New("boom")
	src := &sliceSource{notes: []card.Note{card.NewNote(m, "a")}, err: boom}

	_, err := Assemble(m, DefaultTitle, rand.New(rand.NewPCG(1, 2)), src)
	assert.Equal(t, boom, err)
}

func TestAddRejectsForeignNotes(t *testing.T) {
	m := card.MathModel()
	d := New(m, DefaultTitle, rand.New(rand.NewPCG(1, 2)))

	assert.Error(t, d.Add(card.Note{ModelID: 42, Fields: make([]string, 4)}))
	assert.Error(t, d.Add(card.Note{ModelID: m.ID, Fields: []string{"a"}}))
	assert.NoError(t, d.Add(card.NewNote(m, "a")))
	assert.Equal(t, 1, d.Len())
}

func TestNotesReturnsCopy(t *testing.T) {
	m := card.MathModel()
	d := New(m, DefaultTitle, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, d.Add(card.NewNote(m, "a")))

	notes := d.Notes()
	notes[0] = card.NewNote(m, "b")
	assert.Equal(t, "a", d.Notes()[0].Fields[0])
}
