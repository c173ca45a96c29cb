package subjects

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ethanbaker/wikiai/pkg/sdk"
	"gopkg.in/yaml.v3"
)

//go:embed subjects.yaml
var defaultCatalog []byte

// Load parses the catalog at path, or the built-in catalog when path is empty
func Load(path string) (sdk.Subjects, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read subjects file: %w", err)
		}
	}

	var subjects sdk.Subjects
	if err := yaml.Unmarshal(data, &subjects); err != nil {
		return nil, fmt.Errorf("failed to parse subjects: %w", err)
	}
	for key, group := range subjects {
		if group.Name == "" {
			return nil, fmt.Errorf("subject group %q has no name", key)
		}
	}

	return subjects, nil
}
