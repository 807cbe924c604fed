package interfaces

import (
	"context"

	"github.com/drujensen/gaurika/internal/domain/entities"
)

type HistoryRepository interface {
	LoadHistory(ctx context.Context) ([]entities.Message, error)
	SaveHistory(ctx context.Context, history []entities.Message) error
}

// PreferencesRepository returns *errs.NotFoundError when nothing is stored yet.
type PreferencesRepository interface {
	GetPreferences(ctx context.Context) (*entities.Preferences, error)
	SavePreferences(ctx context.Context, prefs *entities.Preferences) error
}

type AuditLogRepository interface {
	AppendEntry(ctx context.Context, entry *entities.AuditEntry) error
}
