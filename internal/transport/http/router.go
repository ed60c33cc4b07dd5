package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"geoquiz-service/internal/engine"
)

// NewRouter assembles the HTTP surface: guest auth, the public pool and
// practice endpoints, the JWT-guarded stats endpoint, and the websocket
// play endpoint.
func NewRouter(service *engine.Service, auth *AuthService, profiles ProfileSaver) http.Handler {
	pools := NewPoolHandlers(service)
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/auth/guest", GuestLoginHandler(auth, profiles))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))

		r.Get("/countries", pools.Countries)
		r.Get("/states", pools.States)
		r.Get("/problems", pools.Problems)
		r.Get("/quiz/countries-capitals", pools.MatchRound)

		r.Group(func(r chi.Router) {
			r.Use(JWTMiddleware(auth))
			r.Get("/stats", pools.Stats)
		})
	})

	r.Get("/ws", ws.ServeWS)

	return r
}
