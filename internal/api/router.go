package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Condition routes
			r.Post("/conditions", apiHandler.CreateConditionHandler)
			r.Get("/conditions", apiHandler.ListConditionsHandler)
			r.Delete("/conditions/{conditionID}", apiHandler.DeleteConditionHandler)
			r.Get("/conditions/{conditionID}/insights", apiHandler.GetConditionInsightHandler)

			// Medication routes
			r.Post("/medications", apiHandler.CreateMedicationHandler)
			r.Get("/medications", apiHandler.ListMedicationsHandler)
			r.Delete("/medications/{medicationID}", apiHandler.DeleteMedicationHandler)

			// Check-in routes
			r.Put("/checkins/{date}", apiHandler.SaveCheckInHandler)
			r.Get("/checkins", apiHandler.ListCheckInsHandler)
			r.Get("/checkins/{date}", apiHandler.GetCheckInHandler)

			// Insight routes
			r.Get("/insights", apiHandler.ListInsightsHandler)

			// Assistant route
			r.Post("/assistant/ask", apiHandler.AskAssistantHandler)
		})
	})

	return r
}
