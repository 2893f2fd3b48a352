package apkg

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// Package is the content of an .apkg file as read back from disk
type Package struct {
	Decks  []DeckInfo
	Models []ModelInfo
	Notes  []NoteInfo
	Cards  int
}

// DeckInfo describes one deck of a package
type DeckInfo struct {
	ID   int64
	Name string
}

// ModelInfo describes one note type of a package
type ModelInfo struct {
	ID     int64
	Name   string
	Fields []string
	CSS    string
	QFmt   []string
	AFmt   []string
}

// NoteInfo is one stored note
type NoteInfo struct {
	ID      int64
	GUID    string
	ModelID int64
	Fields  []string
}

// Deck returns the first deck other than Anki's built-in Default deck
func (p *Package) Deck() (DeckInfo, bool) {
	for _, d := range p.Decks {
		if d.ID != 1 {
			return d, true
		}
	}
	return DeckInfo{}, false
}

// Read opens an .apkg file and loads its decks, models and notes
func Read(ctx context.Context, path string) (*Package, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open package %s", path)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == collectionName {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, errors.Errorf("%s: no %s in package", path, collectionName)
	}

	tmp, err := os.MkdirTemp("", "ankimath-*")
	if err != nil {
		return nil, errors.Wrap(err, "create temp dir")
	}
	defer os.RemoveAll(tmp)

	dbPath := filepath.Join(tmp, collectionName)
	if err := extract(entry, dbPath); err != nil {
		return nil, err
	}

	return readCollection(ctx, dbPath)
}

func extract(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "open %s", f.Name)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "create collection copy")
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errors.Wrapf(err, "extract %s", f.Name)
	}
	return errors.Wrap(out.Close(), "close collection copy")
}

func readCollection(ctx context.Context, dbPath string) (*Package, error) {
	db, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open collection")
	}
	defer db.Close()

	var col struct {
		Models string `db:"models"`
		Decks  string `db:"decks"`
	}
	if err := db.GetContext(ctx, &col, "SELECT models, decks FROM col LIMIT 1"); err != nil {
		return nil, errors.Wrap(err, "select collection row")
	}

	p := &Package{}

	var decks map[string]deckJSON
	if err := json.Unmarshal([]byte(col.Decks), &decks); err != nil {
		return nil, errors.Wrap(err, "decode decks")
	}
	for _, d := range decks {
		p.Decks = append(p.Decks, DeckInfo{ID: d.ID, Name: d.Name})
	}
	sort.Slice(p.Decks, func(i, j int) bool { return p.Decks[i].ID < p.Decks[j].ID })

	var models map[string]modelJSON
	if err := json.Unmarshal([]byte(col.Models), &models); err != nil {
		return nil, errors.Wrap(err, "decode models")
	}
	for _, m := range models {
		info := ModelInfo{ID: m.ID, Name: m.Name, CSS: m.CSS}
		for _, f := range m.Flds {
			info.Fields = append(info.Fields, f.Name)
		}
		for _, t := range m.Tmpls {
			info.QFmt = append(info.QFmt, t.QFmt)
			info.AFmt = append(info.AFmt, t.AFmt)
		}
		p.Models = append(p.Models, info)
	}
	sort.Slice(p.Models, func(i, j int) bool { return p.Models[i].ID < p.Models[j].ID })

	var rows []struct {
		ID   int64  `db:"id"`
		GUID string `db:"guid"`
		MID  int64  `db:"mid"`
		Flds string `db:"flds"`
	}
	if err := db.SelectContext(ctx, &rows, "SELECT id, guid, mid, flds FROM notes ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "select notes")
	}
	for _, r := range rows {
		p.Notes = append(p.Notes, NoteInfo{
			ID:      r.ID,
			GUID:    r.GUID,
			ModelID: r.MID,
			Fields:  strings.Split(r.Flds, fieldSep),
		})
	}

	if err := db.GetContext(ctx, &p.Cards, "SELECT count(*) FROM cards"); err != nil {
		return nil, errors.Wrap(err, "count cards")
	}
	return p, nil
}
