package drive

import (
	"context"
	"sync"
	"time"

	"github.com/liliang-cn/buildsense/internal/config"
	"github.com/liliang-cn/buildsense/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
)

// Scopes requested from the user: read-only file and metadata access
var Scopes = []string{drive.DriveReadonlyScope, drive.DriveMetadataReadonlyScope}

// Browser lists and fetches construction documents from Google Drive.
// In demo mode every provider failure is masked by fixed fallback data.
type Browser struct {
	oauth   *oauth2.Config
	demo    bool
	delay   time.Duration
	factory ProviderFactory
	logger  *zap.Logger

	mu    sync.RWMutex
	token *oauth2.Token
}

// NewBrowser creates a new Drive browser
func NewBrowser(cfg config.DriveConfig, factory ProviderFactory, logger *zap.Logger) *Browser {
	if factory == nil {
		factory = NewAPIProvider
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Browser{
		demo:    cfg.DemoMode,
		delay:   cfg.DemoAuthDelay,
		factory: factory,
		logger:  logger,
	}
	if cfg.ClientID != "" {
		b.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		}
	}
	return b
}

// DemoMode reports whether fallback data masks provider failures
func (b *Browser) DemoMode() bool {
	return b.demo
}

// Configured reports whether an OAuth client is available
func (b *Browser) Configured() bool {
	return b.oauth != nil
}

// AuthCodeURL returns the consent page URL for the authorization-code flow
func (b *Browser) AuthCodeURL(state string) (string, error) {
	if b.oauth == nil {
		return "", domain.ErrDriveNotConfigured
	}
	return b.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// Exchange trades an authorization code for a token
func (b *Browser) Exchange(ctx context.Context, code string) error {
	if b.oauth == nil {
		return domain.ErrDriveNotConfigured
	}
	tok, err := b.oauth.Exchange(ctx, code)
	if err != nil {
		return err
	}
	b.SetToken(tok)
	return nil
}

// SetToken installs an OAuth token
func (b *Browser) SetToken(tok *oauth2.Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = tok
}

func (b *Browser) currentToken() *oauth2.Token {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token
}

// Authenticate reports whether Drive access is available.
// Without an OAuth client, demo mode resolves true after a fixed delay.
func (b *Browser) Authenticate(ctx context.Context) (bool, error) {
	if tok := b.currentToken(); tok != nil && (tok.Valid() || tok.RefreshToken != "") {
		return true, nil
	}
	if !b.demo || b.oauth != nil {
		return false, nil
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(b.delay):
	}

	b.logger.Info("drive demo mode: simulating granted access")
	return true, nil
}

func (b *Browser) provider(ctx context.Context) (Provider, error) {
	tok := b.currentToken()
	if tok == nil {
		return nil, domain.ErrDriveNotAuthenticated
	}

	var ts oauth2.TokenSource
	if b.oauth != nil {
		ts = b.oauth.TokenSource(ctx, tok)
	} else {
		ts = oauth2.StaticTokenSource(tok)
	}
	return b.factory(ctx, ts)
}

// ListFiles lists candidate construction documents
func (b *Browser) ListFiles(ctx context.Context) ([]domain.DriveFile, error) {
	p, err := b.provider(ctx)
	if err == nil {
		var files []domain.DriveFile
		files, err = p.ListFiles(ctx, FileQuery, PageSize)
		if err == nil {
			return files, nil
		}
	}

	if b.demo {
		b.logger.Warn("drive list failed, serving fallback files", zap.Error(err))
		return MockFiles(), nil
	}
	return nil, err
}

// GetFileContent downloads one file
func (b *Browser) GetFileContent(ctx context.Context, id string) (*domain.Document, error) {
	p, err := b.provider(ctx)
	if err == nil {
		var doc *domain.Document
		doc, err = p.GetFile(ctx, id)
		if err == nil {
			return doc, nil
		}
	}

	if b.demo {
		b.logger.Warn("drive download failed, serving fallback report",
			zap.String("file_id", id),
			zap.Error(err),
		)
		return MockDocument(), nil
	}
	return nil, err
}
