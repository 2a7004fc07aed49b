package main

import (
	"context"
	"os"

	"github.com/yigit/mindcare/internal/pkg/logger" // Still needed for initial error logging
	"github.com/yigit/mindcare/internal/server"
)

// @title MindCare API
// @version 1.0
// @description Student mental-health support API: support chat with risk triage, peer forum, assessments, counselling bookings and analytics

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token for authorization

func main() {
	srv, err := server.NewServer(context.Background(), os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run the server (this blocks until shutdown signal)
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
