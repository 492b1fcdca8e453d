package main

import (
	"os"

	"github.com/abhijeet-rane/SamaySetu/internal/pkg/logger"
	"github.com/abhijeet-rane/SamaySetu/internal/server"
)

// @title SamaySetu API
// @version 1.0
// @description Staff account lifecycle and authentication API for the SamaySetu timetable platform

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
