package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/wnddl111/organoid/internal/config"
	"github.com/wnddl111/organoid/internal/handlers"
	"github.com/wnddl111/organoid/internal/repository"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config) *Server {
	scheduleRepo := repository.NewScheduleRepository(database)
	templateRepo := repository.NewTemplateRepository(database)
	protocolRepo := repository.NewProtocolRepository(database)
	personRepo := repository.NewPersonRepository(database)

	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo, templateRepo)
	templateHandler := handlers.NewTemplateHandler(templateRepo)
	protocolHandler := handlers.NewProtocolHandler(protocolRepo)
	personHandler := handlers.NewPersonHandler(personRepo)
	dashboardHandler := handlers.NewDashboardHandler(scheduleRepo)
	calendarHandler := handlers.NewCalendarHandler(scheduleRepo)
	exportHandler := handlers.NewExportHandler(scheduleRepo)
	icalHandler := handlers.NewICalHandler(scheduleRepo)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/ical", icalHandler.Feed)

	router.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", dashboardHandler.Stats)
		r.Get("/calendar", calendarHandler.View)
		r.Get("/export/schedules.xlsx", exportHandler.Schedules)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templateHandler.List)
			r.Post("/", templateHandler.Create)
			r.Get("/{name}", templateHandler.Get)
			r.Delete("/{name}", templateHandler.Delete)
			r.Get("/{name}/preview", templateHandler.Preview)

			r.Get("/{name}/protocols", protocolHandler.List)
			r.Get("/{name}/protocols/{day}", protocolHandler.Get)
			r.Put("/{name}/protocols/{day}", protocolHandler.Upsert)
			r.Delete("/{name}/protocols/{day}", protocolHandler.Delete)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Post("/", scheduleHandler.Create)
			r.Post("/recommend", scheduleHandler.Recommend)
			r.Get("/{name}", scheduleHandler.Get)
			r.Delete("/{name}", scheduleHandler.Delete)
			r.Post("/{name}/complete", scheduleHandler.Complete)
			r.Get("/{name}/overlaps", scheduleHandler.Overlaps)
			r.Post("/{name}/visits/{visitID}", scheduleHandler.UpdateVisit)
		})

		r.Route("/people", func(r chi.Router) {
			r.Get("/", personHandler.List)
			r.Post("/", personHandler.Create)
			r.Delete("/{name}", personHandler.Delete)
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}

// Handler exposes the assembled router, mainly for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}
