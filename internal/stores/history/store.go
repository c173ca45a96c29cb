// Package history records the exchanges served by the answering service.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MaxEntries is the most exchanges List returns for a session
const MaxEntries = 100

// DefaultRetention is how long exchanges are kept
const DefaultRetention = 30 * 24 * time.Hour

// Exchange is one question and its answer
type Exchange struct {
	ID          string
	SessionID   string
	Message     string
	Response    string
	MessageType string
	TrustScore  *float64
	Sources     []string
	Timestamp   time.Time
}

// Store persists exchanges
type Store interface {
	// Save records an exchange. ID, SessionID and Timestamp must be set
	Save(ctx context.Context, e *Exchange) error

	// List returns at most limit exchanges of a session, oldest first
	List(ctx context.Context, sessionID string, limit int) ([]Exchange, error)

	// Prune deletes exchanges older than before and reports how many were removed
	Prune(ctx context.Context, before time.Time) (int64, error)
}

func validate(e *Exchange) error {
	if e == nil {
		return errors.New("exchange cannot be nil")
	}
	if e.ID == "" {
		return errors.New("id cannot be empty")
	}
	if e.SessionID == "" {
		return errors.New("session_id cannot be empty")
	}
	if e.Timestamp.IsZero() {
		return errors.New("timestamp cannot be empty")
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxEntries {
		return MaxEntries
	}
	return limit
}

// MySQLConfig builds the driver config from the MYSQL_* keys
func MySQLConfig(cfg *utils.Config) mysql.Config {
	return mysql.Config{
		User:                 cfg.Get("MYSQL_USERNAME"),
		Passwd:               cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%s", cfg.GetWithDefault("MYSQL_HOST", "localhost"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
		DBName:               cfg.Get("MYSQL_DATABASE"),
		ParseTime:            true,
		AllowNativePasswords: true,
		Params:               map[string]string{"charset": "utf8mb4"},
	}
}

// New opens the store selected by HISTORY_STORE (memory or mysql)
func New(cfg *utils.Config, logger *zap.Logger) (Store, error) {
	retention := cfg.GetDuration("HISTORY_RETENTION", DefaultRetention)

	switch kind := cfg.GetWithDefault("HISTORY_STORE", "memory"); kind {
	case "memory":
		return NewMemoryStore(retention), nil
	case "mysql":
		dbConfig := MySQLConfig(cfg)
		return NewMySqlStore(dbConfig.FormatDSN(), logger)
	default:
		return nil, fmt.Errorf("unknown HISTORY_STORE %q (expected memory or mysql)", kind)
	}
}
