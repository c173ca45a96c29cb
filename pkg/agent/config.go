package agent

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"

	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/joho/godotenv"
)

// DefaultModel is used when MODEL is not configured
const DefaultModel = "gpt-4o"

// LoadAgentConfig loads configuration for a specific agent: the values of
// .env.<agentName> layered over base. A missing agent file leaves base's values
// as they are
func LoadAgentConfig(agentName string, base *utils.Config) (*utils.Config, error) {
	values := map[string]string{}
	if base != nil {
		values = base.ToMap()
	}

	agentEnvFile := ".env." + agentName
	overrides, err := godotenv.Read(agentEnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return utils.NewConfig(values), nil
		}
		return utils.NewConfig(values), fmt.Errorf("failed to read %s: %w", agentEnvFile, err)
	}

	maps.Copy(values, overrides)
	return utils.NewConfig(values), nil
}

// Model returns the configured model name
func Model(cfg *utils.Config) string {
	return cfg.GetWithDefault("MODEL", DefaultModel)
}
