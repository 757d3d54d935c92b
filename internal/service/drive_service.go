package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/liliang-cn/buildsense/internal/domain"
	"go.uber.org/zap"
)

// DriveBrowser is the cloud file browser used by the picker
type DriveBrowser interface {
	Authenticate(ctx context.Context) (bool, error)
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) error
	ListFiles(ctx context.Context) ([]domain.DriveFile, error)
	DemoMode() bool
}

// DriveService backs the Drive picker
type DriveService struct {
	browser DriveBrowser
	logger  *zap.Logger

	mu     sync.Mutex
	states map[string]struct{}
}

// NewDriveService creates a new drive service
func NewDriveService(browser DriveBrowser, logger *zap.Logger) *DriveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriveService{
		browser: browser,
		logger:  logger,
		states:  make(map[string]struct{}),
	}
}

// Authenticate reports whether the picker can list files
func (s *DriveService) Authenticate(ctx context.Context) (bool, error) {
	return s.browser.Authenticate(ctx)
}

// AuthURL starts the OAuth flow and returns the consent URL
func (s *DriveService) AuthURL(ctx context.Context) (string, error) {
	state := uuid.New().String()
	url, err := s.browser.AuthCodeURL(state)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.states[state] = struct{}{}
	s.mu.Unlock()

	return url, nil
}

// Callback completes the OAuth flow
func (s *DriveService) Callback(ctx context.Context, state, code string) error {
	s.mu.Lock()
	_, ok := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()

	if !ok || code == "" {
		return domain.ErrInvalidRequest
	}

	if err := s.browser.Exchange(ctx, code); err != nil {
		s.logger.Error("drive token exchange failed", zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	s.logger.Info("drive authorized")
	return nil
}

// ListFiles returns the candidate documents for the picker
func (s *DriveService) ListFiles(ctx context.Context) (*domain.DriveFileListResponse, error) {
	files, err := s.browser.ListFiles(ctx)
	if err != nil {
		s.logger.Error("drive list failed", zap.Error(err))
		if errors.Is(err, domain.ErrDriveNotAuthenticated) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return &domain.DriveFileListResponse{
		Files:    files,
		DemoMode: s.browser.DemoMode(),
	}, nil
}
