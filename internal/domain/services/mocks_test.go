package services

import (
	"context"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

type mockShell struct {
	mock.Mock
}

func (m *mockShell) Run(ctx context.Context, command string, timeout time.Duration) (string, int, error) {
	args := m.Called(ctx, command, timeout)
	return args.String(0), args.Int(1), args.Error(2)
}

type mockPrompter struct {
	mock.Mock
}

func (m *mockPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	args := m.Called(ctx, question)
	return args.Bool(0), args.Error(1)
}

func (m *mockPrompter) Ask(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

type mockAuditLog struct {
	mock.Mock
}

func (m *mockAuditLog) AppendEntry(ctx context.Context, entry *entities.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, command string, trust entities.TrustMode) string {
	args := m.Called(ctx, command, trust)
	return args.String(0)
}

func (m *mockExecutor) RunTrusted(ctx context.Context, command, source string) *entities.CommandResult {
	args := m.Called(ctx, command, source)
	return args.Get(0).(*entities.CommandResult)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Add(name, command string, interval int) (*entities.ScheduledJob, error) {
	args := m.Called(name, command, interval)
	if args.Get(0) != nil {
		return args.Get(0).(*entities.ScheduledJob), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduler) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *mockScheduler) List() []entities.ScheduledJob {
	args := m.Called()
	return args.Get(0).([]entities.ScheduledJob)
}

func (m *mockScheduler) RunPending(now time.Time) int {
	args := m.Called(now)
	return args.Int(0)
}

func (m *mockScheduler) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *mockScheduler) Stop() {
	m.Called()
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) LoadHistory(ctx context.Context) ([]entities.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]entities.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockHistoryRepository) SaveHistory(ctx context.Context, history []entities.Message) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

type mockPreferencesRepository struct {
	mock.Mock
}

func (m *mockPreferencesRepository) GetPreferences(ctx context.Context) (*entities.Preferences, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*entities.Preferences), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPreferencesRepository) SavePreferences(ctx context.Context, prefs *entities.Preferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

// scriptedModel replies with a fixed sequence of responses and records every request.
type scriptedModel struct {
	replies  []*interfaces.CompletionResponse
	errs     []error
	requests []interfaces.CompletionRequest
}

func (m *scriptedModel) Complete(ctx context.Context, req interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	i := len(m.requests)
	req.Messages = append([]entities.Message(nil), req.Messages...)
	m.requests = append(m.requests, req)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	return m.replies[i], nil
}

func (m *scriptedModel) ModelName() string { return "scripted" }

func (m *scriptedModel) ProviderType() entities.ProviderType { return entities.ProviderGeneric }
