package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/liliang-cn/buildsense/internal/domain"
	"github.com/liliang-cn/buildsense/internal/ingest"
	"go.uber.org/zap"
)

// Analyzer runs a structured analysis over document content
type Analyzer interface {
	Analyze(ctx context.Context, content []byte, fileName, mimeType string) (*domain.DetailedAnalysis, error)
}

// AnalysisService runs 6-loop analyses for workspaces
type AnalysisService struct {
	workspaces *WorkspaceService
	ingest     *ingest.Adapter
	analyzer   Analyzer
	logger     *zap.Logger
}

// NewAnalysisService creates a new analysis service. analyzer may be nil when
// no LLM is configured; runs then fail as upstream errors.
func NewAnalysisService(
	workspaces *WorkspaceService,
	adapter *ingest.Adapter,
	analyzer Analyzer,
	logger *zap.Logger,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		workspaces: workspaces,
		ingest:     adapter,
		analyzer:   analyzer,
		logger:     logger,
	}
}

// Analyze sends one document to the analyzer
func (s *AnalysisService) Analyze(ctx context.Context, content []byte, fileName, mimeType string) (*domain.DetailedAnalysis, error) {
	if s.analyzer == nil {
		return nil, fmt.Errorf("%w: analysis model not configured", domain.ErrUpstream)
	}
	result, err := s.analyzer.Analyze(ctx, content, fileName, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return result, nil
}

// Run analyzes the selected document of a workspace.
// Without a selection no external call is made. A failed run keeps the
// previously displayed result.
func (s *AnalysisService) Run(ctx context.Context, workspaceID string) (*domain.AnalysisReport, error) {
	if _, err := s.workspaces.load(workspaceID); err != nil {
		return nil, err
	}

	states := s.workspaces.states
	input, err := states.beginAnalysis(workspaceID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, &input.ref, input.upload)
	if err != nil {
		states.finishAnalysis(workspaceID, input.generation, nil, true)
		s.logger.Error("analysis failed",
			zap.String("workspace_id", workspaceID),
			zap.String("document", input.ref.Name),
			zap.Error(err),
		)
		return nil, err
	}

	if !states.finishAnalysis(workspaceID, input.generation, result, false) {
		s.logger.Info("analysis result dropped for superseded selection",
			zap.String("workspace_id", workspaceID),
			zap.String("document", input.ref.Name),
		)
	} else {
		s.logger.Info("analysis completed",
			zap.String("workspace_id", workspaceID),
			zap.String("document", input.ref.Name),
			zap.Int("loops", len(result.Loops)),
			zap.Int("risks", len(result.Risks)),
		)
	}

	return s.Report(ctx, workspaceID)
}

// Report returns the current analysis state and result of a workspace
func (s *AnalysisService) Report(ctx context.Context, workspaceID string) (*domain.AnalysisReport, error) {
	ws, err := s.workspaces.load(workspaceID)
	if err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{
		WorkspaceID: ws.ID,
		State:       ws.AnalysisState,
		Result:      ws.Result,
	}
	if ws.Selection != nil {
		report.Document = *ws.Selection
	}
	return report, nil
}

// IsUpstreamError reports whether err came from the LLM or storage provider
func IsUpstreamError(err error) bool {
	return errors.Is(err, domain.ErrUpstream)
}
