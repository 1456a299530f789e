// Package sqlitekv is a storage.Store backed by a single SQLite file,
// opened through database/sql and github.com/mattn/go-sqlite3. Each
// table's Snapshot is gob-encoded into one BLOB row; SQLite itself
// only ever sees an opaque byte string, so the engine gets a real
// embedded database as its blob store instead of a bare file, while
// the blob's internal layout stays opaque to SQLite.
package sqlitekv

import (
	"bytes"
	"database/sql"
	"encoding/gob"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/storage"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS table_blobs (
	name       TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store is a storage.Store backed by one SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite file at path and
// ensures the table_blobs table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "opening sqlite store %q", path)
	}
	if err := db.Ping(); err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "connecting to sqlite store %q", path)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "initializing sqlite store %q", path)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func encode(snap storage.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "encoding table snapshot")
	}
	return buf.Bytes(), nil
}

func decode(payload []byte) (storage.Snapshot, error) {
	var snap storage.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
		return storage.Snapshot{}, dberr.Wrap(dberr.Storage, err, "decoding table snapshot")
	}
	return snap, nil
}

func (s *Store) Exists(table string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM table_blobs WHERE name = ?`, table).Scan(&count)
	if err != nil {
		return false, dberr.Wrap(dberr.Storage, err, "checking existence of table %q", table)
	}
	return count > 0, nil
}

func (s *Store) Create(table string, snap storage.Snapshot) error {
	exists, err := s.Exists(table)
	if err != nil {
		return err
	}
	if exists {
		return dberr.New(dberr.Storage, "table %q already exists", table)
	}
	payload, err := encode(snap)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO table_blobs (name, payload, updated_at) VALUES (?, ?, strftime('%s','now'))`,
		table, payload,
	)
	if err != nil {
		return dberr.Wrap(dberr.Storage, err, "creating table %q", table)
	}
	return nil
}

func (s *Store) Load(table string) (storage.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM table_blobs WHERE name = ?`, table).Scan(&payload)
	if err == sql.ErrNoRows {
		return storage.Snapshot{}, dberr.New(dberr.Schema, "table %q does not exist", table)
	}
	if err != nil {
		return storage.Snapshot{}, dberr.Wrap(dberr.Storage, err, "loading table %q", table)
	}
	return decode(payload)
}

// Save overwrites table's blob in a single statement, so a write
// always replaces the whole blob rather than patching it in place.
func (s *Store) Save(table string, snap storage.Snapshot) error {
	payload, err := encode(snap)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE table_blobs SET payload = ?, updated_at = strftime('%s','now') WHERE name = ?`,
		payload, table,
	)
	if err != nil {
		return dberr.Wrap(dberr.Storage, err, "saving table %q", table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.Wrap(dberr.Storage, err, "saving table %q", table)
	}
	if n == 0 {
		return dberr.New(dberr.Schema, "table %q does not exist", table)
	}
	return nil
}

func (s *Store) Drop(table string) error {
	res, err := s.db.Exec(`DELETE FROM table_blobs WHERE name = ?`, table)
	if err != nil {
		return dberr.Wrap(dberr.Storage, err, "dropping table %q", table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.Wrap(dberr.Storage, err, "dropping table %q", table)
	}
	if n == 0 {
		return dberr.New(dberr.Schema, "table %q does not exist", table)
	}
	return nil
}

func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM table_blobs ORDER BY name ASC`)
	if err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "listing tables")
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dberr.Wrap(dberr.Storage, err, "listing tables")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
