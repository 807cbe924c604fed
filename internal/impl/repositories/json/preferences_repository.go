package repositories_json

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

const preferencesFile = "user_pref.json"

type JSONPreferencesRepository struct {
	filePath string
	logger   *zap.Logger
}

func NewJSONPreferencesRepository(dataDir string, logger *zap.Logger) *JSONPreferencesRepository {
	return &JSONPreferencesRepository{
		filePath: filepath.Join(dataDir, preferencesFile),
		logger:   logger,
	}
}

func (r *JSONPreferencesRepository) GetPreferences(ctx context.Context) (*entities.Preferences, error) {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil, errs.NotFoundErrorf("no preferences stored at %s", r.filePath)
	}
	if err != nil {
		return nil, errs.InternalErrorf("failed to read %s: %v", preferencesFile, err)
	}

	var prefs entities.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, errs.InternalErrorf("failed to unmarshal %s: %v", preferencesFile, err)
	}

	return &prefs, nil
}

func (r *JSONPreferencesRepository) SavePreferences(ctx context.Context, prefs *entities.Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return errs.InternalErrorf("failed to marshal preferences: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.filePath), 0755); err != nil {
		return errs.InternalErrorf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(r.filePath, data, 0644); err != nil {
		return errs.InternalErrorf("failed to write %s: %v", preferencesFile, err)
	}

	r.logger.Info("Saved preferences", zap.String("path", r.filePath))
	return nil
}

var _ interfaces.PreferencesRepository = (*JSONPreferencesRepository)(nil)
