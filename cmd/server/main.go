package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Yerlan2901/Progress_Engine/internal/config"
	"github.com/Yerlan2901/Progress_Engine/internal/database"
	"github.com/Yerlan2901/Progress_Engine/internal/handlers"
	"github.com/Yerlan2901/Progress_Engine/internal/jobs"
	"github.com/Yerlan2901/Progress_Engine/internal/repository"
	cronjobs "github.com/Yerlan2901/Progress_Engine/internal/scheduler"
	"github.com/Yerlan2901/Progress_Engine/internal/services"
	"github.com/Yerlan2901/Progress_Engine/pkg/logger"
	"github.com/Yerlan2901/Progress_Engine/pkg/middleware"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	goalRepo := repository.NewGoalRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// --- Services ---
	goalService := services.NewGoalService(goalRepo)
	progressService := services.NewProgressService(goalRepo, activityRepo)
	correlationService := services.NewCorrelationService(goalRepo, activityRepo)

	// --- Handlers ---
	goalHandler := handlers.NewGoalHandler(goalService, progressService)
	activityHandler := handlers.NewActivityHandler(progressService, activityRepo, goalService)
	correlationHandler := handlers.NewCorrelationHandler(correlationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	goalRoutes := router.PathPrefix("/goals").Subrouter()
	goalRoutes.HandleFunc("", goalHandler.CreateGoalHandler).Methods("POST")
	goalRoutes.HandleFunc("", goalHandler.GetGoalsHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}", goalHandler.GetGoalHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}", goalHandler.DeleteGoalHandler).Methods("DELETE")
	goalRoutes.HandleFunc("/{id}/status", goalHandler.UpdateGoalStatusHandler).Methods("PATCH")
	goalRoutes.HandleFunc("/{id}/progress", goalHandler.GetGoalProgressHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}/recompute", goalHandler.RecomputeProgressHandler).Methods("POST")

	goalRoutes.HandleFunc("/{id}/activities", activityHandler.LogActivityHandler).Methods("POST")
	goalRoutes.HandleFunc("/{id}/activities", activityHandler.GetActivitiesHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}/activities/{activityId}/supersede", activityHandler.SupersedeActivityHandler).Methods("POST")

	router.HandleFunc("/correlations", correlationHandler.CorrelateHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Nightly snapshot refresh for idle goals
	refresher := jobs.NewSnapshotRefresher(goalRepo, progressService)
	cronjobs.StartRefreshCron(refresher, cfg.RefreshCron)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
