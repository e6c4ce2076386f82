package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/PoolCheck-App/poolcheck_backend/internal/store"
	"github.com/PoolCheck-App/poolcheck_backend/internal/ws"
)

// SetupRoutes configures all HTTP routes for the pool testing API
func SetupRoutes(dataStore store.DataStore, wsHub *ws.Hub, defaultPoolID string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, specify allowed origins
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers := NewHandlers(dataStore, wsHub, defaultPoolID)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// System stats
		r.Get("/stats", handlers.GetSystemStats)

		// Test data routes
		r.Route("/tests", func(r chi.Router) {
			// Submit a test manually
			r.Post("/", handlers.AddTest)

			// Latest test
			r.Get("/latest", handlers.GetLatestTest)

			// Recent tests with optional filtering
			r.Get("/recent", handlers.GetRecentTests)

			// Historical tests in time range
			r.Get("/history", handlers.GetTestsInRange)
		})

		// Compliance routes
		r.Route("/compliance", func(r chi.Router) {
			r.Get("/latest", handlers.GetComplianceStatus)
			r.Get("/closure", handlers.GetClosureDecision)
		})

		// Dosing adjustment routes
		r.Route("/adjustments", func(r chi.Router) {
			r.Get("/latest", handlers.GetAdjustments)
		})

		// Chemical standards and trends
		r.Route("/chemicals", func(r chi.Router) {
			r.Get("/", handlers.GetChemicalStandards)
			r.Get("/{chemical}/trend", handlers.GetChemicalTrend)
		})

		// Export routes for test history
		r.Route("/export", func(r chi.Router) {
			r.Get("/history.xlsx", handlers.ExportHistoryExcel)
			r.Get("/history.csv", handlers.ExportHistoryCSV)
		})
	})

	// WebSocket route for real-time updates
	r.HandleFunc("/ws", wsHub.HandleWebSocket)

	return r
}
