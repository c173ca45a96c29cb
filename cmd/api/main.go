package main

import (
	"log"

	"github.com/ethanbaker/wikiai/internal/api"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/utils"
	"go.uber.org/zap"
)

// Start the API server
func main() {
	// Load global config from the env file selected by ENV_FILE
	cfg, err := utils.NewConfigFromEnv(utils.EnvFile())
	if err != nil {
		log.Printf("[API-MAIN]: %v", err)
	}

	logger := logging.New(logging.OptionsFromConfig(cfg))
	defer logger.Sync()

	// Start
	if err := api.Start(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
