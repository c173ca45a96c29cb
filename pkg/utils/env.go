package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is used when ENV_FILE is not set
const DefaultEnvFile = ".env"

// EnvFile returns the env file selected by ENV_FILE, or the default
func EnvFile() string {
	return GetEnvWithDefault("ENV_FILE", DefaultEnvFile)
}

// LoadEnv loads environment variables from multiple .env files and returns the
// resulting process environment as a map. Files that do not exist are skipped.
// Variables already present in the environment are never overwritten, so earlier
// files win over later ones and the real environment wins over every file
func LoadEnv(files ...string) (map[string]string, error) {
	var problems []string
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", file, err))
		}
	}

	values := make(map[string]string)
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if ok && key != "" {
			values[key] = value
		}
	}

	if len(problems) > 0 {
		return values, fmt.Errorf("could not load env files: %s", strings.Join(problems, "; "))
	}
	return values, nil
}

// GetEnvWithDefault returns an environment variable value or a default if not set
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
