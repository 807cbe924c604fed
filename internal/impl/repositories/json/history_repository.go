package repositories_json

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

const historyFile = "context_history.json"

// JSONHistoryRepository keeps the conversation as an indented JSON array that is
// rewritten in full on every save.
type JSONHistoryRepository struct {
	filePath string
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewJSONHistoryRepository(dataDir string, logger *zap.Logger) *JSONHistoryRepository {
	return &JSONHistoryRepository{
		filePath: filepath.Join(dataDir, historyFile),
		logger:   logger,
	}
}

func (r *JSONHistoryRepository) LoadHistory(ctx context.Context) ([]entities.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return []entities.Message{}, nil
	}
	if err != nil {
		return nil, errs.InternalErrorf("failed to read %s: %v", historyFile, err)
	}

	var history []entities.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errs.InternalErrorf("failed to unmarshal %s: %v", historyFile, err)
	}
	if history == nil {
		history = []entities.Message{}
	}

	r.logger.Debug("Loaded history", zap.String("path", r.filePath), zap.Int("messages", len(history)))
	return history, nil
}

func (r *JSONHistoryRepository) SaveHistory(ctx context.Context, history []entities.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if history == nil {
		history = []entities.Message{}
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return errs.InternalErrorf("failed to marshal history: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.filePath), 0755); err != nil {
		return errs.InternalErrorf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(r.filePath, data, 0644); err != nil {
		return errs.InternalErrorf("failed to write %s: %v", historyFile, err)
	}

	return nil
}

var _ interfaces.HistoryRepository = (*JSONHistoryRepository)(nil)
