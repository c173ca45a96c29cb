package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/internal/upload"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/ethanbaker/wikiai/pkg/utils"
)

// DefaultBaseURL is the backend a client talks to when none is configured
const DefaultBaseURL = "http://localhost:8001/api"

// DefaultDownloadDir receives exported documents
const DefaultDownloadDir = "./downloads"

// Settings configures a client session
type Settings struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	Upload          upload.Policy
	DownloadDir     string
	DefaultCategory category.Category
}

// DefaultSettings are used for every key missing from the config
func DefaultSettings() Settings {
	return Settings{
		BaseURL:         DefaultBaseURL,
		Timeout:         sdk.DefaultTimeout,
		Upload:          upload.DefaultPolicy(),
		DownloadDir:     DefaultDownloadDir,
		DefaultCategory: category.Default,
	}
}

// SettingsFromConfig reads the client keys from cfg
func SettingsFromConfig(cfg *utils.Config) (Settings, error) {
	def := DefaultSettings()

	extensions := cfg.GetList("UPLOAD_ALLOWED_EXTENSIONS", def.Upload.Extensions)
	for i, ext := range extensions {
		extensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}

	s := Settings{
		BaseURL: cfg.GetWithDefault("BACKEND_BASE_URL", def.BaseURL),
		APIKey:  cfg.Get("BACKEND_API_KEY"),
		Timeout: cfg.GetDuration("REQUEST_TIMEOUT", def.Timeout),
		Upload: upload.Policy{
			MaxBytes:   cfg.GetInt64WithDefault("UPLOAD_MAX_BYTES", def.Upload.MaxBytes),
			Extensions: extensions,
		},
		DownloadDir:     cfg.GetWithDefault("DOWNLOAD_DIR", def.DownloadDir),
		DefaultCategory: def.DefaultCategory,
	}

	if raw := cfg.Get("DEFAULT_CATEGORY"); raw != "" {
		c, err := category.Parse(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid DEFAULT_CATEGORY: %w", err)
		}
		s.DefaultCategory = c
	}

	if s.Upload.MaxBytes <= 0 {
		return Settings{}, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %d", s.Upload.MaxBytes)
	}

	return s, nil
}
