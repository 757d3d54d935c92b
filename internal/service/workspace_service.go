package service

import (
	"context"
	"mime/multipart"

	"github.com/liliang-cn/buildsense/internal/domain"
	"github.com/liliang-cn/buildsense/internal/ingest"
	"github.com/liliang-cn/buildsense/internal/repository"
	"go.uber.org/zap"
)

// WorkspaceService manages workspaces and their selected documents
type WorkspaceService struct {
	repo   *repository.WorkspaceRepository
	ingest *ingest.Adapter
	states *stateStore
	logger *zap.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	repo *repository.WorkspaceRepository,
	adapter *ingest.Adapter,
	logger *zap.Logger,
) *WorkspaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceService{
		repo:   repo,
		ingest: adapter,
		states: newStateStore(),
		logger: logger,
	}
}

// Create opens a new workspace with the greeting already in its transcript
func (s *WorkspaceService) Create(ctx context.Context) (*domain.WorkspaceView, error) {
	ws := &domain.Workspace{}
	if err := s.repo.Create(ws); err != nil {
		return nil, err
	}

	greeting := &domain.ChatMessage{
		WorkspaceID: ws.ID,
		Role:        domain.RoleAssistant,
		Content:     domain.WelcomeMessage,
	}
	if err := s.repo.CreateMessage(greeting); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created", zap.String("workspace_id", ws.ID))
	return s.Get(ctx, ws.ID)
}

// Get returns the dashboard view of a workspace
func (s *WorkspaceService) Get(ctx context.Context, id string) (*domain.WorkspaceView, error) {
	ws, err := s.load(id)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.GetMessages(id)
	if err != nil {
		return nil, err
	}

	return &domain.WorkspaceView{Workspace: *ws, Messages: messages}, nil
}

// load reads a workspace and overlays its in-memory state
func (s *WorkspaceService) load(id string) (*domain.Workspace, error) {
	ws, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}
	s.states.apply(ws)
	return ws, nil
}

// SelectUpload makes an uploaded file the active document
func (s *WorkspaceService) SelectUpload(ctx context.Context, id string, file *multipart.FileHeader) (*domain.Workspace, error) {
	if _, err := s.load(id); err != nil {
		return nil, err
	}

	doc, err := s.ingest.LoadUpload(file)
	if err != nil {
		return nil, err
	}

	ref := domain.NewLocalRef(doc.Name)
	if err := s.repo.SetSelection(id, ref); err != nil {
		return nil, err
	}
	s.states.selectDocument(id, ref, doc)

	s.logger.Info("document uploaded",
		zap.String("workspace_id", id),
		zap.String("name", doc.Name),
		zap.String("mime_type", doc.MimeType),
		zap.Int("bytes", len(doc.Content)),
	)
	return s.load(id)
}

// SelectDriveFile makes a cloud file the active document
func (s *WorkspaceService) SelectDriveFile(ctx context.Context, id string, req *domain.SelectDriveFileRequest) (*domain.Workspace, error) {
	if req == nil || req.ID == "" || req.Name == "" {
		return nil, domain.ErrInvalidRequest
	}
	if _, err := s.load(id); err != nil {
		return nil, err
	}

	ref := domain.NewRemoteRef(req.ID, req.Name)
	if err := s.repo.SetSelection(id, ref); err != nil {
		return nil, err
	}
	s.states.selectDocument(id, ref, nil)

	s.logger.Info("drive file selected",
		zap.String("workspace_id", id),
		zap.String("file_id", req.ID),
	)
	return s.load(id)
}

// Stats returns usage counters
func (s *WorkspaceService) Stats(ctx context.Context) (*domain.Stats, error) {
	workspaces, err := s.repo.CountWorkspaces()
	if err != nil {
		return nil, err
	}
	chats, err := s.repo.CountMessages(domain.RoleUser)
	if err != nil {
		return nil, err
	}
	analyses, failures := s.states.counters()
	return &domain.Stats{
		TotalWorkspaces: workspaces,
		TotalChats:      chats,
		TotalAnalyses:   analyses,
		FailedAnalyses:  failures,
	}, nil
}
