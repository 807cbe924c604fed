package services

import (
	"context"
	"errors"
	"strings"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

type PreferencesService interface {
	LoadOrCreate(ctx context.Context) (*entities.Preferences, error)
	UpdateTrustMode(ctx context.Context, mode entities.TrustMode) (*entities.Preferences, error)
}

type preferencesService struct {
	repo     interfaces.PreferencesRepository
	prompter interfaces.Prompter
	logger   *zap.Logger
}

func NewPreferencesService(repo interfaces.PreferencesRepository, prompter interfaces.Prompter, logger *zap.Logger) *preferencesService {
	return &preferencesService{
		repo:     repo,
		prompter: prompter,
		logger:   logger,
	}
}

// LoadOrCreate returns the stored preferences, asking the user for them on first run.
func (s *preferencesService) LoadOrCreate(ctx context.Context) (*entities.Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx)
	if err == nil {
		if prefs.TrustMode.Valid() {
			return prefs, nil
		}
		s.logger.Warn("Stored trust mode is invalid, asking again", zap.String("trust_mode", string(prefs.TrustMode)))
		if prefs.TrustMode, err = s.askTrustMode(ctx); err != nil {
			return nil, err
		}
		return prefs, s.repo.SavePreferences(ctx, prefs)
	}

	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	prefs = &entities.Preferences{}
	if prefs.Name, err = s.prompter.Ask(ctx, "Please enter your name: "); err != nil {
		return nil, err
	}
	if prefs.LinuxUsername, err = s.prompter.Ask(ctx, "Please enter your Linux username: "); err != nil {
		return nil, err
	}
	if prefs.LinuxDistro, err = s.prompter.Ask(ctx, "Please enter your Linux distribution: "); err != nil {
		return nil, err
	}
	if prefs.TrustMode, err = s.askTrustMode(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *preferencesService) askTrustMode(ctx context.Context) (entities.TrustMode, error) {
	question := "Please enter trust mode (full, half, none): "
	for {
		answer, err := s.prompter.Ask(ctx, question)
		if err != nil {
			return "", err
		}
		mode, err := entities.ParseTrustMode(answer)
		if err == nil {
			return mode, nil
		}
		s.logger.Debug("Invalid trust mode entered", zap.String("value", strings.TrimSpace(answer)))
		question = "Invalid trust mode. Please enter full, half or none: "
	}
}

func (s *preferencesService) UpdateTrustMode(ctx context.Context, mode entities.TrustMode) (*entities.Preferences, error) {
	if !mode.Valid() {
		return nil, errs.ValidationErrorf("invalid trust mode %q", mode)
	}

	prefs, err := s.repo.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}
	prefs.TrustMode = mode
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
