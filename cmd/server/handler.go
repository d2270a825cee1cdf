package main

import (
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chatlens/insights/charts"
	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/db"
	"github.com/chatlens/insights/normalize"
	"github.com/chatlens/insights/store"
	"github.com/go-chi/chi/v5"
)

func collectHandler(dbConn *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact := chi.URLParam(r, "contact")
		kind := chi.URLParam(r, "kind")
		name := chi.URLParam(r, "name")
		if !store.ValidID(contact) || !store.ValidKind(kind) || !store.ValidID(name) {
			http.Error(w, "invalid fragment path", http.StatusBadRequest)
			return
		}

		var data json.RawMessage
		err := decodeJSONBody(w, r, &data)
		if err != nil {
			var mr *malformedRequest
			if errors.As(err, &mr) {
				http.Error(w, mr.msg, mr.status)
			} else {
				log.Printf("error decoding payload: %s", err.Error())
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			}
			return
		}
		if _, err := normalize.ParseObject(data); err != nil {
			http.Error(w, "Request body must be a JSON object", http.StatusBadRequest)
			return
		}

		err = db.SaveFragment(dbConn, db.Fragment{
			ContactID: contact,
			Kind:      kind,
			Name:      name,
			Time:      time.Now(),
			Data:      data,
		})
		if err == nil {
			err = db.SaveContact(dbConn, contact, r.URL.Query().Get("name"))
		}
		if err != nil {
			log.Printf("Error handling request: %s", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func contactsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contacts, err := store.ListContacts()
		if err != nil {
			log.Printf("Error listing contacts: %v", err)
			http.Error(w, "Failed to list contacts", http.StatusInternalServerError)
			return
		}
		if contacts == nil {
			contacts = []store.Contact{}
		}
		writeJSON(w, contacts)
	}
}

// chartsJSONHandler serves the exported charts of a contact, exporting them
// first if no file exists yet.
func chartsJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !store.ValidID(id) {
			http.Error(w, "Contact not found", http.StatusNotFound)
			return
		}
		path := charts.ChartsFilePath(chartDataDir(), id)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := charts.ExportChartsJSON(id, chartDataDir()); err != nil {
				if errors.Is(err, store.ErrContactNotFound) {
					http.Error(w, "Contact not found", http.StatusNotFound)
					return
				}
				log.Printf("Error exporting charts for %s: %v", id, err)
				http.Error(w, "Failed to export charts", http.StatusInternalServerError)
				return
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.Error(w, "No data available", http.StatusNotFound)
				return
			}
			log.Printf("Error reading charts for %s: %v", id, err)
			http.Error(w, "Failed to load charts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}

type heatmapResponse struct {
	AvailableYears []string       `json:"availableYears"`
	SelectedYear   string         `json:"selectedYear"`
	Options        map[string]any `json:"options"`
}

// heatmapHandler applies a year selection to a contact's heatmap and returns
// the resulting chart option.
func heatmapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := store.LoadPayload(chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, store.ErrContactNotFound) {
				http.Error(w, "Contact not found", http.StatusNotFound)
				return
			}
			log.Printf("Error loading payload: %v", err)
			http.Error(w, "Failed to load data", http.StatusInternalServerError)
			return
		}

		view, err := charts.HeatmapViewOf(payload)
		if err != nil {
			http.Error(w, "No heatmap data: "+err.Error(), http.StatusNotFound)
			return
		}
		if year := r.URL.Query().Get(consts.YearQueryParam); year != "" {
			view, err = view.Update(charts.YearSelected{Year: year})
			if errors.Is(err, normalize.ErrUnknownYear) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		chart := view.Chart()
		chart.Validate()
		writeJSON(w, heatmapResponse{
			AvailableYears: view.Partition.AvailableYears,
			SelectedYear:   view.Partition.SelectedYear,
			Options:        chart.JSON(),
		})
	}
}

// apiKeyMiddleware requires API_KEY as a bearer token or api_key query
// parameter. Without API_KEY the API is open.
func apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv("API_KEY")
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.URL.Query().Get(consts.APIKeyQueryParam)
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, consts.AuthHeaderPrefix) {
			provided = strings.TrimPrefix(auth, consts.AuthHeaderPrefix)
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
