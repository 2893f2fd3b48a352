package apkg

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/otano/ankimath/internal/card"
	"github.com/otano/ankimath/internal/deck"
)

// fieldSep separates field values in the notes.flds column
const fieldSep = "\x1f"

// guidNamespace scopes note GUIDs so the same field values always map to the
// same note when a deck is regenerated and re-imported
var guidNamespace = uuid.MustParse("6f0f5b5e-5a3d-4d3e-9b8e-1f2a9c0d7e41")

type fieldJSON struct {
	Name   string        `json:"name"`
	Ord    int           `json:"ord"`
	Font   string        `json:"font"`
	Size   int           `json:"size"`
	RTL    bool          `json:"rtl"`
	Sticky bool          `json:"sticky"`
	Media  []interface{} `json:"media"`
}

type templateJSON struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
}

type modelJSON struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	Usn       int             `json:"usn"`
	Sortf     int             `json:"sortf"`
	Did       int64           `json:"did"`
	Tmpls     []templateJSON  `json:"tmpls"`
	Flds      []fieldJSON     `json:"flds"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Tags      []string        `json:"tags"`
	Vers      []interface{}   `json:"vers"`
	Req       [][]interface{} `json:"req"`
}

type deckJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Mod       int64  `json:"mod"`
	Usn       int    `json:"usn"`
	Conf      int    `json:"conf"`
	Dyn       int    `json:"dyn"`
	Collapsed bool   `json:"collapsed"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
}

const latexPre = `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}
`

const latexPost = `\end{document}`

func encodeModel(m card.Model, deckID, mod int64) modelJSON {
	out := modelJSON{
		ID:        m.ID,
		Name:      m.Name,
		Mod:       mod,
		Usn:       -1,
		Did:       deckID,
		CSS:       m.CSS,
		LatexPre:  latexPre,
		LatexPost: latexPost,
		Tags:      []string{},
		Vers:      []interface{}{},
	}
	for i, name := range m.Fields {
		out.Flds = append(out.Flds, fieldJSON{
			Name:  name,
			Ord:   i,
			Font:  "Arial",
			Size:  20,
			Media: []interface{}{},
		})
	}
	for i, t := range m.Templates {
		out.Tmpls = append(out.Tmpls, templateJSON{Name: t.Name, Ord: i, QFmt: t.QFmt, AFmt: t.AFmt})
		out.Req = append(out.Req, []interface{}{i, "any", requiredFields(m, t.QFmt)})
	}
	return out
}

// requiredFields lists the fields referenced on a question side; a card is
// generated when any of them is non-empty
func requiredFields(m card.Model, qfmt string) []int {
	req := []int{}
	for i, name := range m.Fields {
		if strings.Contains(qfmt, "{{"+name+"}}") {
			req = append(req, i)
		}
	}
	return req
}

func encodeDeck(id int64, name string, mod int64) deckJSON {
	return deckJSON{ID: id, Name: name, Mod: mod, Usn: -1, Conf: 1}
}

// collectionJSON builds the models, decks and conf columns of the col row
func collectionJSON(d *deck.Deck, mod int64) (models, decks, conf string, err error) {
	m, err := json.Marshal(map[string]modelJSON{
		strconv.FormatInt(d.Model.ID, 10): encodeModel(d.Model, d.ID, mod),
	})
	if err != nil {
		return "", "", "", err
	}

	dk, err := json.Marshal(map[string]deckJSON{
		"1":                         encodeDeck(1, "Default", mod),
		strconv.FormatInt(d.ID, 10): encodeDeck(d.ID, d.Title, mod),
	})
	if err != nil {
		return "", "", "", err
	}

	c, err := json.Marshal(map[string]interface{}{
		"activeDecks":   []int64{1},
		"curDeck":       1,
		"newSpread":     0,
		"collapseTime":  1200,
		"timeLim":       0,
		"estTimes":      true,
		"dueCounts":     true,
		"curModel":      nil,
		"nextPos":       1,
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
	})
	if err != nil {
		return "", "", "", err
	}
	return string(m), string(dk), string(c), nil
}

// noteGUID is stable for a given model and field values
func noteGUID(n card.Note) string {
	key := strconv.FormatInt(n.ModelID, 10) + fieldSep + strings.Join(n.Fields, fieldSep)
	return uuid.NewSHA1(guidNamespace, []byte(key)).String()
}

// fieldChecksum is the first 8 hex digits of the SHA-1 of the sort field
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return v
}
