// Package httpapi exposes the escrow operations over HTTP/JSON: the
// session-scoped user surface (check-ins, contacts, credentials, manual
// share) and the bearer-token trigger surface the external cron invokes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/config"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/services"
)

// Server wires the services into an HTTP handler and owns the listener.
type Server struct {
	cfg         *config.Config
	logger      logging.Logger
	activity    *services.ActivityService
	contacts    *services.ContactService
	credentials *services.CredentialService
	disclosure  *services.DisclosureService
	sweeps      *services.SweepService

	srv *http.Server
}

// NewServer constructs the Server and its router.
func NewServer(cfg *config.Config, logger logging.Logger, activity *services.ActivityService, contacts *services.ContactService, credentials *services.CredentialService, disclosure *services.DisclosureService, sweeps *services.SweepService) *Server {
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		activity:    activity,
		contacts:    contacts,
		credentials: credentials,
		disclosure:  disclosure,
		sweeps:      sweeps,
	}
	s.srv = &http.Server{
		Addr:              cfg.EndpointAddrHTTP,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the chi router. Exposed for handler tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessionAuth)

		r.Post("/checkins", s.handleRecordCheckIn)
		r.Get("/checkins/last", s.handleLastCheckIn)

		r.Get("/contacts", s.handleListContacts)
		r.Post("/contacts", s.handleAddContact)
		r.Patch("/contacts/{id}", s.handleUpdateContact)
		r.Post("/contacts/{id}/deactivate", s.handleDeactivateContact)
		r.Delete("/contacts/{id}", s.handleRemoveContact)

		r.Get("/credentials", s.handleListCredentials)
		r.Post("/credentials", s.handleAddCredential)

		r.Post("/share", s.handleShare)
	})

	r.Route("/internal/sweeps", func(r chi.Router) {
		r.Use(s.triggerAuth)

		r.Post("/disclosure", s.handleDisclosureSweep)
		r.Post("/reminder", s.handleReminderSweep)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "http request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start).String())
	})
}
