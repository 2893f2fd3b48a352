package apkg

// Collection schema version 11, the layout every Anki release still imports
var schema = []string{
	`CREATE TABLE col (
    id              integer primary key,
    crt             integer not null,
    mod             integer not null,
    scm             integer not null,
    ver             integer not null,
    dty             integer not null,
    usn             integer not null,
    ls              integer not null,
    conf            text not null,
    models          text not null,
    decks           text not null,
    dconf           text not null,
    tags            text not null
)`,
	`CREATE TABLE notes (
    id              integer primary key,
    guid            text not null,
    mid             integer not null,
    mod             integer not null,
    usn             integer not null,
    tags            text not null,
    flds            text not null,
    sfld            integer not null,
    csum            integer not null,
    flags           integer not null,
    data            text not null
)`,
	`CREATE TABLE cards (
    id              integer primary key,
    nid             integer not null,
    did             integer not null,
    ord             integer not null,
    mod             integer not null,
    usn             integer not null,
    type            integer not null,
    queue           integer not null,
    due             integer not null,
    ivl             integer not null,
    factor          integer not null,
    reps            integer not null,
    lapses          integer not null,
    left            integer not null,
    odue            integer not null,
    odid            integer not null,
    flags           integer not null,
    data            text not null
)`,
	`CREATE TABLE revlog (
    id              integer primary key,
    cid             integer not null,
    usn             integer not null,
    ease            integer not null,
    ivl             integer not null,
    lastIvl         integer not null,
    factor          integer not null,
    time            integer not null,
    type            integer not null
)`,
	`CREATE TABLE graves (
    usn             integer not null,
    oid             integer not null,
    type            integer not null
)`,
	`CREATE INDEX ix_notes_usn on notes (usn)`,
	`CREATE INDEX ix_cards_usn on cards (usn)`,
	`CREATE INDEX ix_revlog_usn on revlog (usn)`,
	`CREATE INDEX ix_cards_nid on cards (nid)`,
	`CREATE INDEX ix_cards_sched on cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_cid on revlog (cid)`,
	`CREATE INDEX ix_notes_csum on notes (csum)`,
}

const (
	insertCol = `INSERT INTO col
(id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
VALUES (1, :crt, :mod, :scm, 11, 0, 0, 0, :conf, :models, :decks, :dconf, '{}')`

	insertNote = `INSERT INTO notes
(id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
VALUES (:id, :guid, :mid, :mod, -1, :tags, :flds, :sfld, :csum, 0, '')`

	insertCard = `INSERT INTO cards
(id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
VALUES (:id, :nid, :did, :ord, :mod, -1, 0, 0, :due, 0, 0, 0, 0, 0, 0, 0, 0, '')`
)

// Default deck options group, referenced by every deck through conf=1
const defaultDeckConf = `{
  "1": {
    "id": 1, "name": "Default", "mod": 0, "usn": 0, "maxTaken": 60,
    "autoplay": true, "timer": 0, "replayq": true, "dyn": false,
    "new": {"bury": true, "delays": [1, 10], "initialFactor": 2500,
      "ints": [1, 4, 7], "order": 1, "perDay": 20, "separate": true},
    "lapse": {"delays": [10], "leechAction": 0, "leechFails": 8,
      "minInt": 1, "mult": 0},
    "rev": {"bury": true, "ease4": 1.3, "fuzz": 0.05, "ivlFct": 1,
      "maxIvl": 36500, "minSpace": 1, "perDay": 100}
  }
}`
