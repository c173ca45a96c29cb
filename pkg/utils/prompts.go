package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadPrompt loads prompt instructions from a specific file path
// The path must be exact - no fallback searching is performed
func LoadPrompt(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file does not exist: %s", filePath)
		}
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	prompt := strings.TrimSpace(string(content))
	if prompt == "" {
		return "", fmt.Errorf("file is empty: %s", filePath)
	}
	return prompt, nil
}

// LoadPromptWithFallback loads prompt instructions from a specific file path with a fallback
// If the file is not found or empty, it returns the fallback string
func LoadPromptWithFallback(filePath, fallback string) string {
	if filePath == "" {
		return fallback
	}
	if content, err := LoadPrompt(filePath); err == nil {
		return content
	}
	return fallback
}

// LoadPromptFromDir loads "<dir>/<name>.md" when dir is set, falling back otherwise
func LoadPromptFromDir(dir, name, fallback string) string {
	if dir == "" {
		return fallback
	}
	return LoadPromptWithFallback(filepath.Join(dir, name+".md"), fallback)
}
