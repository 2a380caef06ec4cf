package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"shikayat/handler"
	"shikayat/middleware"
	"shikayat/service"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	dashboardService *service.DashboardService,
	analyticsService *service.AnalyticsService,
	complaintService *service.ComplaintService,
	suggestionService *service.SuggestionService,
	lookupService *service.LookupService,
	jwtSecret string,
	logger zerolog.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(logger))

	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)
	complaintHandler := handler.NewComplaintHandler(complaintService, logger)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService, logger)
	lookupHandler := handler.NewLookupHandler(lookupService, logger)

	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)

	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	// Dashboard and analytics (staff)
	apiV1.Handle("/dashboard", authMiddleware.RequireAuth(http.HandlerFunc(dashboardHandler.GetDashboard))).Methods("GET")
	apiV1.Handle("/analytics", authMiddleware.RequireAuth(http.HandlerFunc(analyticsHandler.GetAnalytics))).Methods("GET")

	// Complaint lifecycle
	complaints := apiV1.PathPrefix("/complaints").Subrouter()
	complaints.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.ListMyComplaints))).Methods("GET")
	complaints.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.CreateComplaint))).Methods("POST")
	complaints.Handle("/{id}", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.GetComplaint))).Methods("GET")
	complaints.Handle("/{id}/status", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.ChangeStatus))).Methods("POST")
	complaints.Handle("/{id}/importance", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.ToggleImportance))).Methods("POST")
	complaints.Handle("/{id}/comments", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.AddComment))).Methods("POST")

	// Suggestions track
	suggestions := apiV1.PathPrefix("/suggestions").Subrouter()
	suggestions.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(suggestionHandler.ListSuggestions))).Methods("GET")
	suggestions.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(suggestionHandler.CreateSuggestion))).Methods("POST")
	suggestions.Handle("/{id}", authMiddleware.RequireAuth(http.HandlerFunc(suggestionHandler.GetSuggestion))).Methods("GET")
	suggestions.Handle("/{id}/status", authMiddleware.RequireAuth(http.HandlerFunc(suggestionHandler.ChangeStatus))).Methods("POST")
	suggestions.Handle("/{id}/importance", authMiddleware.RequireAuth(http.HandlerFunc(suggestionHandler.ToggleImportance))).Methods("POST")
	suggestions.Handle("/{id}/comments", authMiddleware.RequireAuth(http.HandlerFunc(suggestionHandler.AddComment))).Methods("POST")

	// Lookup trees (public, drive the submission form)
	apiV1.HandleFunc("/locations", lookupHandler.GetLocations).Methods("GET")
	apiV1.HandleFunc("/categories", lookupHandler.GetCategories).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
