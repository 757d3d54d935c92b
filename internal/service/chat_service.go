package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/liliang-cn/buildsense/internal/domain"
	"github.com/liliang-cn/buildsense/internal/repository"
	"go.uber.org/zap"
)

// Advisor answers a chat message given the prior conversation
type Advisor interface {
	Respond(ctx context.Context, message string, history []domain.HistoryEntry) (string, error)
}

// ChatService handles advisory chat turns
type ChatService struct {
	workspaces *WorkspaceService
	repo       *repository.WorkspaceRepository
	advisor    Advisor
	logger     *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	workspaces *WorkspaceService,
	repo *repository.WorkspaceRepository,
	advisor Advisor,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		workspaces: workspaces,
		repo:       repo,
		advisor:    advisor,
		logger:     logger,
	}
}

// Messages returns the transcript of a workspace
func (s *ChatService) Messages(ctx context.Context, workspaceID string) ([]domain.ChatMessage, error) {
	if _, err := s.workspaces.load(workspaceID); err != nil {
		return nil, err
	}
	return s.repo.GetMessages(workspaceID)
}

// Send records a user message and the advisor's reply.
// On failure the user message stays and no reply is appended.
func (s *ChatService) Send(ctx context.Context, workspaceID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if _, err := s.workspaces.load(workspaceID); err != nil {
		return nil, err
	}

	states := s.workspaces.states
	if err := states.beginChat(workspaceID); err != nil {
		return nil, err
	}

	reply, err := s.turn(ctx, workspaceID, req.Message)
	states.finishChat(workspaceID, err != nil)
	if err != nil {
		s.logger.Error("chat turn failed",
			zap.String("workspace_id", workspaceID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.repo.Touch(workspaceID); err != nil {
		return nil, err
	}

	messages, err := s.repo.GetMessages(workspaceID)
	if err != nil {
		return nil, err
	}
	return &domain.ChatResponse{
		WorkspaceID: workspaceID,
		Reply:       reply,
		Messages:    messages,
	}, nil
}

func (s *ChatService) turn(ctx context.Context, workspaceID, text string) (*domain.ChatMessage, error) {
	prior, err := s.repo.GetMessages(workspaceID)
	if err != nil {
		return nil, err
	}
	history := domain.History(prior)

	userMsg := &domain.ChatMessage{
		WorkspaceID: workspaceID,
		Role:        domain.RoleUser,
		Content:     domain.UserInquiryPrefix + text,
	}
	if err := s.repo.CreateMessage(userMsg); err != nil {
		return nil, err
	}

	if s.advisor == nil {
		return nil, fmt.Errorf("%w: advisory model not configured", domain.ErrUpstream)
	}
	answer, err := s.advisor.Respond(ctx, text, history)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if answer == "" {
		answer = domain.NullResponseMarker
	}

	assistantMsg := &domain.ChatMessage{
		WorkspaceID: workspaceID,
		Role:        domain.RoleAssistant,
		Content:     domain.AdvisorLogPrefix + answer,
	}
	if err := s.repo.CreateMessage(assistantMsg); err != nil {
		return nil, err
	}
	return assistantMsg, nil
}
