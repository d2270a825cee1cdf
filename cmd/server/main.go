package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/db"
	"github.com/chatlens/insights/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/robfig/cron/v3"
)

func startTasks(ctx context.Context, dbConn *sql.DB) error {
	c := cron.New(cron.WithLocation(time.UTC))
	// Copy new fragments from the database into the contacts folder
	_, err := c.AddFunc(consts.CronSnapshot, snapshot(ctx, dbConn))
	if err != nil {
		return err
	}
	// Regenerate all charts JSON once a day at 00:05 UTC
	_, err = c.AddFunc(consts.CronGenerateChart, generateCharts(ctx))
	if err != nil {
		return err
	}
	_, err = c.AddFunc(consts.CronCleanup, cleanup(ctx, dbConn))
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

func chartDataDir() string {
	return filepath.Join(store.DataFolder(), consts.ChartDataDir)
}

func newRouter(dbConn *sql.DB) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	// Dev-only routes (static files and dashboard pages)
	registerDevRoutes(r)

	// Read API (protected by API_KEY if set)
	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(apiKeyMiddleware)
		r.Get("/", contactsHandler())
		r.Get("/{id}/charts", chartsJSONHandler())
		r.Get("/{id}/heatmap", heatmapHandler())
	})

	// Rate-limited collect endpoint
	limiter := httprate.NewRateLimiter(consts.RateLimitRequests, consts.RateLimitWindow, httprate.WithKeyByIP())
	r.With(limiter.Handler).Post("/collect/{contact}/{kind}/{name}", collectHandler(dbConn))
	return r
}

func main() {
	ctx := context.Background()
	dbPath := filepath.Join(store.DataFolder(), consts.DatabaseFile)
	dbConn, err := db.OpenDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Connected to database at %s", dbPath)

	if err := startTasks(ctx, dbConn); err != nil {
		log.Fatal(err)
	}

	go snapshot(ctx, dbConn)()
	go generateCharts(ctx)()
	go func() {
		if err := watchContacts(ctx, consts.WatchDebounce, exportContact); err != nil {
			log.Printf("Error watching contacts: %v", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = consts.DefaultPort
	}

	log.Print("Starting Insights server on :" + port)
	server := &http.Server{
		Addr:              ":" + port,
		ReadHeaderTimeout: consts.ReadHeaderTimeout,
		Handler:           newRouter(dbConn),
	}
	err = server.ListenAndServe()
	if err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
