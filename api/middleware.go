package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// adminMiddleware lets a request through only when it carries the access token of
// the signed-in session as a bearer token.
type adminMiddleware struct {
	store     *content.Store
	responder Responder
}

func newAdminMiddleware(store *content.Store) adminMiddleware {
	logger := log.With().Str("handlerName", "adminMiddleware").Logger()
	return adminMiddleware{
		store:     store,
		responder: NewResponder(logger),
	}
}

func (m adminMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.responder.WriteError(w, errs.NewUnauthorizedError("missing bearer token"))
			return
		}

		user, err := m.store.Authorize(r.Context(), token)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}

		updatedReq := r.WithContext(ctxWithUser(r.Context(), user))
		next.ServeHTTP(w, updatedReq)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// CORSCheckMiddleware rejects preflight requests from origins that are not allowed
// with a JSON error instead of a bare response without CORS headers.
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || r.Method != http.MethodOptions || originAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			responder := NewResponder(log.Logger)
			responder.WriteError(w, errs.NewCORSError(origin))
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// corsMiddleware adds CORS headers for allowed origins and answers preflights
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
