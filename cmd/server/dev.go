//go:build dev

package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/chatlens/insights/charts"
	"github.com/chatlens/insights/store"
	"github.com/go-chi/chi/v5"
)

func registerDevRoutes(r chi.Router) {
	// Static files for charts
	r.Handle("/chartdata/*", http.StripPrefix("/chartdata/", http.FileServer(http.Dir(chartDataDir()))))

	// Dashboard page (no rate limiting), renders server-side
	r.Get("/contacts/{id}", dashboardHandler())
}

func dashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		d, err := charts.LoadDashboard(id)
		if err != nil {
			if errors.Is(err, store.ErrContactNotFound) {
				http.Error(w, "Contact not found", http.StatusNotFound)
				return
			}
			log.Printf("Error loading payload: %v", err)
			http.Error(w, "Failed to load data", http.StatusInternalServerError)
			return
		}
		if len(d.Charts) == 0 {
			http.Error(w, "No data available", http.StatusNotFound)
			return
		}

		title := id
		if c, err := store.FindContact(id); err == nil {
			title = c.Name
		}
		w.Header().Set("Content-Type", "text/html")
		_ = d.Page(title + " - Chat Insights").Render(w)
	}
}
