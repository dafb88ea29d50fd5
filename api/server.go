package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-content-backend/catalog"
	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, store *content.Store, cat *catalog.Catalog, notifier *services.ContactNotifier) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(store, cat, notifier, withConfig(c), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(c, "READ_TIMEOUT_SECONDS", 180, time.Second),
		WriteTimeout: config.GetDuration(c, "WRITE_TIMEOUT_SECONDS", 180, time.Second),
		IdleTimeout:  config.GetDuration(c, "IDLE_TIMEOUT_SECONDS", 180, time.Second),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(store *content.Store, cat *catalog.Catalog, notifier *services.ContactNotifier, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS", []string{"*"})
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	chiRouter.Get("/health", healthHandler(store, router.startupTime))

	handlers := initializeHandlers(store, cat, notifier)
	setupRoutes(chiRouter, handlers, newAdminMiddleware(store))

	return chiRouter
}

// healthHandler reports uptime and whether the initial content load finished
func healthHandler(store *content.Store, startupTime time.Time) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "health").Logger())
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]any{
			"status":  "ok",
			"loading": store.IsLoading(),
			"uptime":  time.Since(startupTime).Round(time.Second).String(),
		})
	}
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
