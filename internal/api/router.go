package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/geodesk/spatial-api/internal/api/handlers"
	"github.com/geodesk/spatial-api/internal/auth"
	"github.com/geodesk/spatial-api/internal/services"
)

// NewRouter creates and configures a new Chi router exposing the REST surface
// and mounting the GraphQL handler.
func NewRouter(
	db *sql.DB,
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	pointService services.PointServiceProvider,
	polygonService services.PolygonServiceProvider,
	graphHandler http.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for frontend integration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	pointHandler := handlers.NewPointHandler(pointService)
	polygonHandler := handlers.NewPolygonHandler(polygonService)
	queryHandler := handlers.NewQueryHandler(pointService, polygonService)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints, rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(20, time.Minute))
			r.Post("/register", userHandler.Register)
			r.Post("/token", userHandler.Token)
		})

		// GraphQL resolves authentication per request inside the handler, so
		// register/login fields stay reachable without a token.
		r.Post("/graphql", graphHandler.ServeHTTP)

		// Protected REST endpoints
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())

			r.Route("/points", func(r chi.Router) {
				r.Get("/", pointHandler.List)
				r.Post("/", pointHandler.Create)
				r.Post("/within-polygon", queryHandler.PointsWithinPolygon)
				r.Post("/nearby", queryHandler.PointsNearby)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", pointHandler.Get)
					r.Put("/", pointHandler.Update)
					r.Delete("/", pointHandler.Delete)
				})
			})

			r.Route("/polygons", func(r chi.Router) {
				r.Get("/", polygonHandler.List)
				r.Post("/", polygonHandler.Create)
				r.Post("/containing-point", queryHandler.PolygonsContainingPoint)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", polygonHandler.Get)
					r.Put("/", polygonHandler.Update)
					r.Delete("/", polygonHandler.Delete)
				})
			})
		})
	})

	return r
}
