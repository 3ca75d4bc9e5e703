package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"interviewlens/internal/cache"
	"interviewlens/internal/repository"
	"interviewlens/internal/service"
	"interviewlens/internal/transport/rest/handler"
	"interviewlens/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Scheduler   *service.Scheduler
	Candidates  repository.CandidateRepo
	Results     repository.ResultRepo
	ResultCache cache.ResultCache
	WSHub       *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	schedulerHandler := handler.NewSchedulerHandler(c.Scheduler)
	candidateHandler := handler.NewCandidateHandler(c.Candidates, c.Scheduler)
	resultHandler := handler.NewResultHandler(c.Results, c.ResultCache)
	wsHandler := ws.NewHandler(c.WSHub)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Scheduler control
	v1.HandleFunc("/scheduler/start", schedulerHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/scheduler/stop", schedulerHandler.Stop).Methods("POST", "OPTIONS")
	v1.HandleFunc("/scheduler/scan", schedulerHandler.Scan).Methods("POST", "OPTIONS")
	v1.HandleFunc("/scheduler/stats", schedulerHandler.Stats).Methods("GET", "OPTIONS")
	v1.HandleFunc("/scheduler/jobs", schedulerHandler.Jobs).Methods("GET", "OPTIONS")

	// Worklist
	v1.HandleFunc("/candidates", candidateHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/candidates/{id}", candidateHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/candidates/{id}/analyze", candidateHandler.Analyze).Methods("POST", "OPTIONS")

	// Results
	v1.HandleFunc("/results", resultHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/results/{id}", resultHandler.Get).Methods("GET", "OPTIONS")

	// Job event stream
	v1.HandleFunc("/ws/events", wsHandler.Events).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
