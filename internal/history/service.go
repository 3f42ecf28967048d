package history

import (
	"context"
	"fmt"

	"github.com/mentorlabs/maestrobridge/internal/analyzer"
	"github.com/mentorlabs/maestrobridge/internal/config"
	"github.com/mentorlabs/maestrobridge/internal/loggy"
	"github.com/mentorlabs/maestrobridge/internal/ulid"
)

// Service records finished analyses and serves history listings.
type Service struct {
	repo   Repository
	cfg    config.HistoryConfig
	logger *loggy.Logger
}

// NewService creates a history service
func NewService(repo Repository, cfg config.HistoryConfig, logger *loggy.Logger) *Service {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// RecordAnalysis stores a summary of a finished analysis and prunes old
// records past the configured limit. Failures are logged, not returned:
// history must never break an analysis.
func (s *Service) RecordAnalysis(ctx context.Context, language string, result *analyzer.Result) {
	if s == nil || !s.cfg.Enabled {
		return
	}

	record := NewRecord(language, result)

	var err error
	if s.cfg.MaxRecords > 0 {
		err = s.repo.SaveAndPrune(ctx, record, s.cfg.MaxRecords)
	} else {
		err = s.repo.SaveRecord(ctx, record)
	}
	if err != nil {
		s.logger.Warn("failed to record analysis", "error", err)
	}
}

// List returns recent analysis records, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*Record, error) {
	if s == nil || !s.cfg.Enabled {
		return nil, fmt.Errorf("history is not enabled")
	}
	return s.repo.ListRecords(ctx, limit)
}

// Get returns a single record by id. Malformed ids are rejected before the
// query runs.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if s == nil || !s.cfg.Enabled {
		return nil, fmt.Errorf("history is not enabled")
	}
	if !ulid.Validate(id) {
		return nil, ErrRecordNotFound
	}
	return s.repo.GetRecordByID(ctx, id)
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	if s == nil || !s.cfg.Enabled {
		return 0, fmt.Errorf("history is not enabled")
	}
	return s.repo.CountRecords(ctx)
}
