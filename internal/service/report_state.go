package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/events"
)

// ReportStateStore holds the in-memory ProcessState of every report scope
// and publishes each change on events.ReportStateChanged(scope).
type ReportStateStore struct {
	mu         sync.Mutex
	states     map[domain.ReportScope]domain.ProcessState
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewReportStateStore starts every scope idle.
func NewReportStateStore(dispatcher events.Dispatcher, logger *zap.Logger) *ReportStateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	states := make(map[domain.ReportScope]domain.ProcessState, len(domain.ReportScopes()))
	for _, scope := range domain.ReportScopes() {
		states[scope] = domain.ProcessState{Status: domain.ProcessStatusIdle}
	}
	return &ReportStateStore{states: states, dispatcher: dispatcher, logger: logger}
}

// State returns a snapshot of scope.
func (s *ReportStateStore) State(scope domain.ReportScope) domain.ProcessState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[scope].Clone()
}

// States returns snapshots of every scope.
func (s *ReportStateStore) States() map[domain.ReportScope]domain.ProcessState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.ReportScope]domain.ProcessState, len(s.states))
	for scope, state := range s.states {
		out[scope] = state.Clone()
	}
	return out
}

// Begin moves scope to processing unless a run is already in flight. The
// returned snapshot is the new state when started is true and the untouched
// current state otherwise.
func (s *ReportStateStore) Begin(ctx context.Context, scope domain.ReportScope, runID string) (state domain.ProcessState, started bool) {
	s.mu.Lock()
	current := s.states[scope]
	if current.Status == domain.ProcessStatusProcessing {
		s.mu.Unlock()
		return current.Clone(), false
	}
	processed := 0
	next := domain.ProcessState{
		Status:         domain.ProcessStatusProcessing,
		Progress:       0,
		ProcessedFiles: &processed,
		RunID:          runID,
	}
	s.states[scope] = next
	snapshot := next.Clone()
	s.mu.Unlock()

	s.publish(ctx, scope, snapshot)
	return snapshot, true
}

// Update applies fn to scope's state and publishes the result.
func (s *ReportStateStore) Update(ctx context.Context, scope domain.ReportScope, fn func(*domain.ProcessState)) domain.ProcessState {
	s.mu.Lock()
	state := s.states[scope].Clone()
	fn(&state)
	s.states[scope] = state
	snapshot := state.Clone()
	s.mu.Unlock()

	s.publish(ctx, scope, snapshot)
	return snapshot
}

func (s *ReportStateStore) publish(ctx context.Context, scope domain.ReportScope, state domain.ProcessState) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.ReportStateChanged(scope),
		Subject:   string(scope),
		Timestamp: time.Now(),
		Payload:   events.ReportStatePayload{Scope: scope, State: state},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("report state handler failed", zap.String("scope", string(scope)), zap.Error(err))
	}
}
