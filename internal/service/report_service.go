package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/observability"
	"github.com/ledgerdesk/backoffice/internal/report"
	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

// Fixed locations below the reports root.
const (
	ReportInputDir  = "tmp"
	ReportOutputDir = "out"
)

// LedgerStore is the file access the report pipelines need.
type LedgerStore interface {
	List(dir string) ([]string, error)
	Open(name string) (io.ReadCloser, error)
	Write(name string, data []byte) error
}

// TaskRunner runs fn in the background.
type TaskRunner interface {
	Go(name string, fn func(ctx context.Context))
}

// ReportService triggers and runs the ledger report pipelines.
type ReportService struct {
	files   LedgerStore
	states  *ReportStateStore
	runner  TaskRunner
	metrics *observability.Metrics
	logger  *zap.Logger
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	Files   LedgerStore
	States  *ReportStateStore
	Runner  TaskRunner
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	states := deps.States
	if states == nil {
		states = NewReportStateStore(nil, logger)
	}
	return &ReportService{
		files:   deps.Files,
		states:  states,
		runner:  deps.Runner,
		metrics: deps.Metrics,
		logger:  logger,
	}
}

// Start triggers scope's pipeline in the background and returns the state
// right after the trigger. A scope that is already processing is left alone.
func (s *ReportService) Start(ctx context.Context, scope domain.ReportScope) (domain.ProcessState, error) {
	if !scope.Valid() {
		return domain.ProcessState{}, apperrors.NewValidationError("unknown report scope", map[string]any{"scope": scope})
	}
	state, started := s.states.Begin(ctx, scope, uuid.NewString())
	if !started {
		return state, nil
	}
	begun := time.Now()
	s.spawn(string(scope), func(runCtx context.Context) {
		s.run(runCtx, scope, begun)
	})
	return state, nil
}

// StartAll triggers every scope.
func (s *ReportService) StartAll(ctx context.Context) map[domain.ReportScope]domain.ProcessState {
	out := make(map[domain.ReportScope]domain.ProcessState, len(domain.ReportScopes()))
	for _, scope := range domain.ReportScopes() {
		state, _ := s.Start(ctx, scope)
		out[scope] = state
	}
	return out
}

// RunSync runs the given scopes one after another on the calling goroutine
// and returns their final states. No scopes means all of them.
func (s *ReportService) RunSync(ctx context.Context, scopes ...domain.ReportScope) (map[domain.ReportScope]domain.ProcessState, error) {
	if len(scopes) == 0 {
		scopes = domain.ReportScopes()
	}
	out := make(map[domain.ReportScope]domain.ProcessState, len(scopes))
	for _, scope := range scopes {
		if !scope.Valid() {
			return nil, apperrors.NewValidationError("unknown report scope", map[string]any{"scope": scope})
		}
		if _, started := s.states.Begin(ctx, scope, uuid.NewString()); started {
			s.run(ctx, scope, time.Now())
		}
		out[scope] = s.states.State(scope)
	}
	return out, nil
}

// State returns the current snapshot of scope.
func (s *ReportService) State(scope domain.ReportScope) domain.ProcessState {
	return s.states.State(scope)
}

// States returns snapshots of every scope.
func (s *ReportService) States() map[domain.ReportScope]domain.ProcessState {
	return s.states.States()
}

func (s *ReportService) spawn(name string, fn func(context.Context)) {
	if s.runner != nil {
		s.runner.Go("report:"+name, fn)
		return
	}
	go fn(context.Background())
}

// run executes one pipeline. Failures end up in the scope's state only.
func (s *ReportService) run(ctx context.Context, scope domain.ReportScope, begun time.Time) {
	logger := s.logger.With(zap.String("scope", string(scope)))
	if err := s.process(ctx, scope); err != nil {
		took := time.Since(begun)
		s.states.Update(ctx, scope, func(st *domain.ProcessState) {
			st.Status = domain.ProcessStatusError
			st.Error = err.Error()
		})
		s.metrics.RecordReportRun(string(scope), string(domain.ProcessStatusError), took)
		logger.Error("report pipeline failed", zap.Error(err), zap.Duration("took", took))
		return
	}

	took := time.Since(begun)
	s.states.Update(ctx, scope, func(st *domain.ProcessState) {
		st.Status = domain.ProcessStatusCompleted
		st.Progress = 100
		st.Duration = fmt.Sprintf("finished in %.2f", took.Seconds())
	})
	s.metrics.RecordReportRun(string(scope), string(domain.ProcessStatusCompleted), took)
	logger.Info("report pipeline completed", zap.Duration("took", took))
}

func (s *ReportService) process(ctx context.Context, scope domain.ReportScope) error {
	if s.files == nil {
		return errors.New("ledger files not configured")
	}
	agg, err := report.New(scope)
	if err != nil {
		return err
	}

	names, err := s.files.List(ReportInputDir)
	if err != nil {
		return fmt.Errorf("list %s: %w", ReportInputDir, err)
	}
	inputs := report.Inputs(scope, names)
	total := len(inputs)
	s.states.Update(ctx, scope, func(st *domain.ProcessState) {
		processed := 0
		st.TotalFiles = &total
		st.ProcessedFiles = &processed
	})

	for i, name := range inputs {
		if err := s.consume(name, agg); err != nil {
			return err
		}
		processed := i + 1
		s.states.Update(ctx, scope, func(st *domain.ProcessState) {
			st.ProcessedFiles = &processed
			st.Progress = float64(processed) / float64(total) * 100
		})
	}

	out := path.Join(ReportOutputDir, scope.OutputFile())
	if err := s.files.Write(out, []byte(agg.Render())); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

func (s *ReportService) consume(name string, agg report.Aggregator) error {
	rc, err := s.files.Open(path.Join(ReportInputDir, name))
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	return report.Consume(name, rc, agg)
}
