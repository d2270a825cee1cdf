package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"
	"log"
	"net/url"
	"time"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/store"
	_ "github.com/mattn/go-sqlite3"
)

// Fragment is one analytics fragment as received by the collector.
type Fragment struct {
	ContactID string
	Kind      string
	Name      string
	Time      time.Time
	Data      json.RawMessage
}

func OpenDB(fileName string) (*sql.DB, error) {
	params := url.Values{
		"_journal_mode": []string{"WAL"},
		"_synchronous":  []string{"NORMAL"},
		"cache_size":    []string{"1000000000"},
		"cache":         []string{"shared"},
		"_busy_timeout": []string{"5000"},
		"_txlock":       []string{"immediate"},
	}
	dataSourceName := fmt.Sprintf("file:%s?%s", fileName, params.Encode())
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Create schema if not exists
	createTableQuery := `
CREATE TABLE IF NOT EXISTS fragments (
	contact_id VARCHAR NOT NULL,
	kind VARCHAR NOT NULL,
	name VARCHAR NOT NULL,
	time DATETIME default CURRENT_TIMESTAMP,
	data JSONB
);
CREATE INDEX IF NOT EXISTS fragments_time ON fragments(time);
CREATE INDEX IF NOT EXISTS fragments_key ON fragments(contact_id, kind, name);
CREATE TABLE IF NOT EXISTS contacts (
	id VARCHAR PRIMARY KEY,
	name VARCHAR NOT NULL
);
`
	_, err = db.Exec(createTableQuery)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	return db, nil
}

func SaveFragment(db *sql.DB, f Fragment) error {
	query := `INSERT INTO fragments (contact_id, kind, name, data, time) VALUES (?, ?, ?, ?, ?)`
	_, err := db.Exec(query, f.ContactID, f.Kind, f.Name, string(f.Data), f.Time.UTC().Format(consts.DateTimeFormat))
	return err
}

// SaveContact records the display name of a contact. An empty name keeps the
// existing one, or falls back to the ID for new contacts.
func SaveContact(db *sql.DB, id, name string) error {
	query := `
INSERT INTO contacts (id, name) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name WHERE ? != ''`
	displayName := name
	if displayName == "" {
		displayName = id
	}
	_, err := db.Exec(query, id, displayName, name)
	return err
}

func Contacts(db *sql.DB) ([]store.Contact, error) {
	rows, err := db.Query(`SELECT id, name FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()
	var contacts []store.Contact
	for rows.Next() {
		var c store.Contact
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func PurgeOldEntries(db *sql.DB) error {
	// Delete superseded fragments older than the retention period. The latest
	// version of each fragment is always kept.
	query := `
DELETE FROM fragments
WHERE time < ?
  AND rowid NOT IN (SELECT MAX(rowid) FROM fragments GROUP BY contact_id, kind, name)`
	cutoff := time.Now().UTC().AddDate(0, 0, -consts.PurgeRetentionDays)
	cnt, err := db.Exec(query, cutoff.Format(consts.DateTimeFormat))
	if err != nil {
		return err
	}
	deleted, _ := cnt.RowsAffected()
	log.Printf("Deleted %d old fragments\n", deleted)
	return nil
}

// SelectLatest returns the latest version of every fragment received at or
// after since, ordered by contact, kind and name.
func SelectLatest(db *sql.DB, since time.Time) (iter.Seq[Fragment], error) {
	query := `
SELECT contact_id, kind, name, time, data
FROM fragments
WHERE rowid IN (
    SELECT MAX(rowid)
    FROM fragments
    WHERE time >= ?
    GROUP BY contact_id, kind, name
)
ORDER BY contact_id, kind, name;`
	rows, err := db.Query(query, since.UTC().Format(consts.DateTimeFormat))
	if err != nil {
		return nil, fmt.Errorf("querying fragments: %w", err)
	}
	return func(yield func(Fragment) bool) {
		defer rows.Close()
		for rows.Next() {
			var f Fragment
			var j string
			err := rows.Scan(&f.ContactID, &f.Kind, &f.Name, &f.Time, &j)
			if err != nil {
				log.Printf("Error scanning row: %s", err)
				return
			}
			f.Data = json.RawMessage(j)
			if !yield(f) {
				return
			}
		}
	}, nil
}
