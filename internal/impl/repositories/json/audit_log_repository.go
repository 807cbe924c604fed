package repositories_json

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/interfaces"
)

const auditLogFile = "command_history.txt"

// TextAuditLogRepository appends entries to a plain-text log. Appends from the
// REPL and from scheduled jobs are serialized so blocks never interleave.
type TextAuditLogRepository struct {
	filePath string
	mu       sync.Mutex
}

func NewTextAuditLogRepository(dataDir string) *TextAuditLogRepository {
	return &TextAuditLogRepository{filePath: filepath.Join(dataDir, auditLogFile)}
}

func (r *TextAuditLogRepository) AppendEntry(ctx context.Context, entry *entities.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.filePath), 0755); err != nil {
		return errs.InternalErrorf("failed to create directory: %v", err)
	}

	f, err := os.OpenFile(r.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errs.InternalErrorf("failed to open %s: %v", auditLogFile, err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry.Format()); err != nil {
		return errs.InternalErrorf("failed to append to %s: %v", auditLogFile, err)
	}
	return nil
}

var _ interfaces.AuditLogRepository = (*TextAuditLogRepository)(nil)
