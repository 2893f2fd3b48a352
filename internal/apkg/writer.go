// Package apkg writes and reads Anki package files (.apkg): a zip archive
// holding a SQLite collection and a media index.
package apkg

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/otano/ankimath/internal/deck"
)

const (
	driverName     = "sqlite"
	collectionName = "collection.anki2"
	mediaName      = "media"
)

// Writer serializes decks into .apkg files
type Writer struct {
	Now    func() time.Time
	Logger *zap.Logger
}

// NewWriter returns a Writer using the wall clock
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{Now: time.Now, Logger: logger}
}

type noteRow struct {
	ID   int64  `db:"id"`
	GUID string `db:"guid"`
	MID  int64  `db:"mid"`
	Mod  int64  `db:"mod"`
	Tags string `db:"tags"`
	Flds string `db:"flds"`
	Sfld string `db:"sfld"`
	Csum int64  `db:"csum"`
}

type cardRow struct {
	ID  int64 `db:"id"`
	NID int64 `db:"nid"`
	DID int64 `db:"did"`
	Ord int   `db:"ord"`
	Mod int64 `db:"mod"`
	Due int   `db:"due"`
}

type colRow struct {
	Crt    int64  `db:"crt"`
	Mod    int64  `db:"mod"`
	Scm    int64  `db:"scm"`
	Conf   string `db:"conf"`
	Models string `db:"models"`
	Decks  string `db:"decks"`
	DConf  string `db:"dconf"`
}

// Write builds the collection in a temporary directory and zips it to path,
// replacing any existing file.
func (w *Writer) Write(ctx context.Context, d *deck.Deck, path string) error {
	tmp, err := os.MkdirTemp("", "ankimath-*")
	if err != nil {
		return errors.Wrap(err, "create temp dir")
	}
	defer os.RemoveAll(tmp)

	dbPath := filepath.Join(tmp, collectionName)
	if err := w.buildCollection(ctx, d, dbPath); err != nil {
		return err
	}

	if err := writeArchive(dbPath, path); err != nil {
		return err
	}

	w.logger().Debug("package written",
		zap.String("path", path),
		zap.Int64("deck_id", d.ID),
		zap.Int("notes", d.Len()))
	return nil
}

func (w *Writer) buildCollection(ctx context.Context, d *deck.Deck, dbPath string) error {
	db, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return errors.Wrap(err, "open collection")
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create collection schema")
		}
	}

	now := w.now()
	modSec := now.Unix()
	modMs := now.UnixMilli()

	models, decks, conf, err := collectionJSON(d, modSec)
	if err != nil {
		return errors.Wrap(err, "encode collection")
	}

	req := make([][]int, len(d.Model.Templates))
	for ord, t := range d.Model.Templates {
		req[ord] = requiredFields(d.Model, t.QFmt)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	col := colRow{
		Crt:    modSec,
		Mod:    modMs,
		Scm:    modMs,
		Conf:   conf,
		Models: models,
		Decks:  decks,
		DConf:  defaultDeckConf,
	}
	if _, err := tx.NamedExecContext(ctx, insertCol, col); err != nil {
		return errors.Wrap(err, "insert collection row")
	}

	for i, n := range d.Notes() {
		id := modMs + int64(i)
		note := noteRow{
			ID:   id,
			GUID: noteGUID(n),
			MID:  n.ModelID,
			Mod:  modSec,
			Flds: strings.Join(n.Fields, fieldSep),
			Sfld: n.Fields[0],
			Csum: fieldChecksum(n.Fields[0]),
		}
		if _, err := tx.NamedExecContext(ctx, insertNote, note); err != nil {
			return errors.Wrapf(err, "insert note %d", i+1)
		}

		for ord := range d.Model.Templates {
			if !hasAny(n.Fields, req[ord]) {
				continue
			}
			c := cardRow{
				ID:  modMs + int64(i*len(d.Model.Templates)+ord),
				NID: id,
				DID: d.ID,
				Ord: ord,
				Mod: modSec,
				Due: i + 1,
			}
			if _, err := tx.NamedExecContext(ctx, insertCard, c); err != nil {
				return errors.Wrapf(err, "insert card for note %d", i+1)
			}
		}
	}

	return errors.Wrap(tx.Commit(), "commit collection")
}

// hasAny reports whether any of the fields at idx is non-empty
func hasAny(fields []string, idx []int) bool {
	for _, i := range idx {
		if i < len(fields) && fields[i] != "" {
			return true
		}
	}
	return false
}

// writeArchive zips the collection and an empty media index into path
func writeArchive(dbPath, path string) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create package file")
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close package file")
		}
	}()

	zw := zip.NewWriter(out)

	db, err := os.Open(dbPath)
	if err != nil {
		return errors.Wrap(err, "open collection")
	}
	defer db.Close()

	entry, err := zw.Create(collectionName)
	if err != nil {
		return errors.Wrap(err, "add collection to package")
	}
	if _, err := io.Copy(entry, db); err != nil {
		return errors.Wrap(err, "copy collection into package")
	}

	entry, err = zw.Create(mediaName)
	if err != nil {
		return errors.Wrap(err, "add media index to package")
	}
	if _, err := io.WriteString(entry, "{}"); err != nil {
		return errors.Wrap(err, "write media index")
	}

	return errors.Wrap(zw.Close(), "finish package")
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w *Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
