// Package server wires the REST API: routing, CORS, auth, and the nightly
// background jobs.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"github.com/globaltfn/remindme-server/data"
	"github.com/globaltfn/remindme-server/extraction"
	"github.com/globaltfn/remindme-server/server/handlers"
)

const defaultPort = 8000

// Serve blocks running the HTTP API.
func Serve() {
	r := chi.NewRouter()
	cors := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum age for preflight requests
	})
	r.Use(cors.Handler)
	r.Use(middleware.Logger)

	dbPool, err := data.NewPool(context.Background())
	if err != nil {
		log.WithError(err).Fatal("cannot connect to the database")
		return
	}

	handler := &handlers.Handler{
		DbPool:   dbPool,
		Pipeline: extraction.NewPipeline(extraction.NewGeminiClient(os.Getenv("GOOGLE_API_KEY"), "")),
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := dbPool.Ping(r.Context()); err != nil {
			w.WriteHeader(500)
			w.Write([]byte(`{"status":"db_ping_error"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/ids", handler.GetScheduleIDs)
			r.Get("/find/{id}", handler.FindSchedule)
			r.Get("/export/{id}", handler.ExportSchedule)
			// the admin form fetches the roster under /schedule as well
			r.Get("/teachers", handler.GetTeachers)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/add", handler.AddSchedule)
				r.Delete("/delete/{id}", handler.DeleteSchedule)
			})
		})

		r.Get("/teachers", handler.GetTeachers)

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", handler.ListHolidays)
			r.Get("/{id}", handler.GetHoliday)
			r.Delete("/{id}", handler.DeleteHoliday)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", handler.UpsertHoliday)
			})
		})

		r.Post("/extract-pdf", handler.ExtractPDF)
	})

	jobs := startJobs(dbPool)
	defer jobs.Stop()

	port := defaultPort
	log.Infof("Running server on :%d", port)
	http.ListenAndServe(fmt.Sprintf(":%d", port), r)
}
