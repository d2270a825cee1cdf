package main

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/chatlens/insights/charts"
	"github.com/chatlens/insights/db"
	"github.com/chatlens/insights/store"
)

func cleanup(_ context.Context, dbConn *sql.DB) func() {
	return func() {
		log.Print("Cleaning old data")
		if err := db.PurgeOldEntries(dbConn); err != nil {
			log.Printf("Error cleaning old data: %v", err)
		}
	}
}

// snapshot copies the latest version of every fragment received since the
// previous run into the contacts folder, and refreshes contacts.json.
func snapshot(_ context.Context, dbConn *sql.DB) func() {
	var mu sync.Mutex
	var since time.Time
	return func() {
		mu.Lock()
		defer mu.Unlock()

		log.Print("Snapshotting fragments")
		start := time.Now()
		rows, err := db.SelectLatest(dbConn, since)
		if err != nil {
			log.Printf("Error selecting fragments: %v", err)
			return
		}
		count := 0
		for f := range rows {
			if err := store.SaveFragment(f.ContactID, f.Kind, f.Name, f.Data); err != nil {
				log.Printf("Error saving fragment %s/%s/%s: %v", f.ContactID, f.Kind, f.Name, err)
				continue
			}
			count++
		}

		contacts, err := db.Contacts(dbConn)
		if err != nil {
			log.Printf("Error loading contacts: %v", err)
			return
		}
		if len(contacts) > 0 {
			if err := store.SaveContacts(contacts); err != nil {
				log.Printf("Error saving contacts: %v", err)
				return
			}
		}
		log.Printf("Snapshotted %d fragments", count)
		since = start
	}
}

func generateCharts(_ context.Context) func() {
	return func() {
		log.Print("Exporting charts JSON")
		if err := charts.ExportAll(chartDataDir()); err != nil {
			log.Printf("Error exporting charts JSON: %v", err)
		}
	}
}

func exportContact(contactID string) {
	if err := charts.ExportChartsJSON(contactID, chartDataDir()); err != nil {
		log.Printf("Error exporting charts for %s: %v", contactID, err)
	}
}
