package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ethanbaker/wikiai/pkg/logging"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ExchangeModel represents the database model for exchanges
type ExchangeModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at"`

	ExchangeID  string    `gorm:"column:exchange_id;unique;not null;size:36"`
	SessionID   string    `gorm:"column:session_id;index;not null;size:64"`
	Message     string    `gorm:"column:message;type:text"`
	Response    string    `gorm:"column:response;type:text"`
	MessageType string    `gorm:"column:message_type;size:32"`
	TrustScore  *float64  `gorm:"column:trust_score"`
	Sources     []string  `gorm:"column:sources;serializer:json"`
	Timestamp   time.Time `gorm:"column:timestamp;index"`
}

// TableName sets the table name for GORM
func (ExchangeModel) TableName() string {
	return "chat_exchanges"
}

func toModel(e *Exchange) *ExchangeModel {
	return &ExchangeModel{
		ExchangeID:  e.ID,
		SessionID:   e.SessionID,
		Message:     e.Message,
		Response:    e.Response,
		MessageType: e.MessageType,
		TrustScore:  e.TrustScore,
		Sources:     e.Sources,
		Timestamp:   e.Timestamp.UTC(),
	}
}

func fromModel(m *ExchangeModel) Exchange {
	sources := m.Sources
	if sources == nil {
		sources = []string{}
	}
	return Exchange{
		ID:          m.ExchangeID,
		SessionID:   m.SessionID,
		Message:     m.Message,
		Response:    m.Response,
		MessageType: m.MessageType,
		TrustScore:  m.TrustScore,
		Sources:     sources,
		Timestamp:   m.Timestamp,
	}
}

// MySqlStore handles storage of exchanges using MySQL
type MySqlStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMySqlStore opens the database and migrates the exchange table
func NewMySqlStore(databaseURL string, logger *zap.Logger) (*MySqlStore, error) {
	db, err := gorm.Open(gormmysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewMySqlStoreFromDB(db, logger)
}

// NewMySqlStoreFromDB wraps an open gorm connection
func NewMySqlStoreFromDB(db *gorm.DB, logger *zap.Logger) (*MySqlStore, error) {
	store := &MySqlStore{db: db, logger: logging.OrNop(logger).Named("history")}

	if err := store.db.AutoMigrate(&ExchangeModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// Save records an exchange
func (s *MySqlStore) Save(ctx context.Context, e *Exchange) error {
	if err := validate(e); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(toModel(e)).Error; err != nil {
		return fmt.Errorf("failed to save exchange: %w", err)
	}
	return nil
}

// List returns the oldest exchanges of a session
func (s *MySqlStore) List(ctx context.Context, sessionID string, limit int) ([]Exchange, error) {
	var models []ExchangeModel
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Limit(clampLimit(limit)).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}

	out := make([]Exchange, 0, len(models))
	for i := range models {
		out = append(out, fromModel(&models[i]))
	}
	return out, nil
}

// Prune deletes exchanges older than before
func (s *MySqlStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("timestamp < ?", before.UTC()).Delete(&ExchangeModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune exchanges: %w", result.Error)
	}

	s.logger.Debug("pruned exchanges", zap.Int64("removed", result.RowsAffected))
	return result.RowsAffected, nil
}
