package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

// InitEnvironmentVariables loads the .env file for the current GO_ENV from
// envDir. Production deployments inject variables directly and skip files.
func InitEnvironmentVariables(envDir string) error {
	if os.Getenv("ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	envFile := filepath.Join(envDir, DEV_ENV_FILENAME)
	if os.Getenv("GO_ENV") == "production" {
		envFile = filepath.Join(envDir, PROD_ENV_FILENAME)
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		log.Warnf("env file %s not found, relying on process environment", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s file: %v", envFile, err)
	}

	return nil
}
