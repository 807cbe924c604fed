package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPreferencesService_LoadOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stored preferences", func(t *testing.T) {
		repo := new(mockPreferencesRepository)
		prompter := new(mockPrompter)
		stored := &entities.Preferences{Name: "Asha", TrustMode: entities.TrustHalf}
		repo.On("GetPreferences", ctx).Return(stored, nil).Once()

		prefs, err := NewPreferencesService(repo, prompter, zap.NewNop()).LoadOrCreate(ctx)

		require.NoError(t, err)
		assert.Equal(t, stored, prefs)
		prompter.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
	})

	t.Run("first run asks until the trust mode is valid", func(t *testing.T) {
		repo := new(mockPreferencesRepository)
		prompter := new(mockPrompter)
		repo.On("GetPreferences", ctx).Return(nil, errs.NotFoundErrorf("no preferences")).Once()
		prompter.On("Ask", ctx, "Please enter your name: ").Return("Asha", nil).Once()
		prompter.On("Ask", ctx, "Please enter your Linux username: ").Return("asha", nil).Once()
		prompter.On("Ask", ctx, "Please enter your Linux distribution: ").Return("Fedora 40", nil).Once()
		prompter.On("Ask", ctx, "Please enter trust mode (full, half, none): ").Return("sometimes", nil).Once()
		prompter.On("Ask", ctx, mock.MatchedBy(func(q string) bool { return q != "" })).Return("FULL", nil).Once()
		repo.On("SavePreferences", ctx, mock.Anything).Return(nil).Once()

		prefs, err := NewPreferencesService(repo, prompter, zap.NewNop()).LoadOrCreate(ctx)

		require.NoError(t, err)
		assert.Equal(t, &entities.Preferences{
			Name:          "Asha",
			LinuxUsername: "asha",
			LinuxDistro:   "Fedora 40",
			TrustMode:     entities.TrustFull,
		}, prefs)
		repo.AssertExpectations(t)
		prompter.AssertExpectations(t)
	})

	t.Run("input closed", func(t *testing.T) {
		repo := new(mockPreferencesRepository)
		prompter := new(mockPrompter)
		repo.On("GetPreferences", ctx).Return(nil, errs.NotFoundErrorf("no preferences")).Once()
		prompter.On("Ask", ctx, mock.Anything).Return("", io.EOF).Once()

		_, err := NewPreferencesService(repo, prompter, zap.NewNop()).LoadOrCreate(ctx)

		assert.ErrorIs(t, err, io.EOF)
		repo.AssertNotCalled(t, "SavePreferences", mock.Anything, mock.Anything)
	})
}

func TestPreferencesService_UpdateTrustMode(t *testing.T) {
	ctx := context.Background()
	repo := new(mockPreferencesRepository)
	repo.On("GetPreferences", ctx).Return(&entities.Preferences{Name: "Asha", TrustMode: entities.TrustFull}, nil).Once()
	repo.On("SavePreferences", ctx, mock.MatchedBy(func(p *entities.Preferences) bool {
		return p.TrustMode == entities.TrustNone
	})).Return(nil).Once()
	service := NewPreferencesService(repo, new(mockPrompter), zap.NewNop())

	prefs, err := service.UpdateTrustMode(ctx, entities.TrustNone)
	require.NoError(t, err)
	assert.Equal(t, entities.TrustNone, prefs.TrustMode)

	_, err = service.UpdateTrustMode(ctx, entities.TrustMode("sometimes"))
	assert.IsType(t, &errs.ValidationError{}, err)
}

func TestBuildSystemPrompt(t *testing.T) {
	prefs := &entities.Preferences{Name: "Asha", LinuxUsername: "asha", LinuxDistro: "Arch", TrustMode: entities.TrustHalf}
	now := time.Date(2024, 3, 9, 18, 4, 5, 0, time.UTC)

	prompt := BuildSystemPrompt(prefs, "OS: Linux\nKernel: 6.8", entities.DefaultTools(), now)

	assert.Contains(t, prompt, "- Name: Asha")
	assert.Contains(t, prompt, "- Linux Distribution: Arch")
	assert.Contains(t, prompt, "**Trust Mode:** 'half'")
	assert.Contains(t, prompt, "Kernel: 6.8")
	assert.Contains(t, prompt, "2024-03-09 18:04:05")
	assert.Contains(t, prompt, "4. **remove_scheduled_task:**")

	empty := BuildSystemPrompt(prefs, "  ", nil, now)
	assert.Contains(t, empty, "Unavailable")
}
