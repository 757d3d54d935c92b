package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/liliang-cn/buildsense/internal/domain"
	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// FileQuery selects non-folder files whose names look like construction documents
const FileQuery = "mimeType != 'application/vnd.google-apps.folder' and (name contains 'Schedule' or name contains 'Report' or name contains 'Plan')"

// PageSize caps a single listing
const PageSize = 20

// MaxDownloadBytes caps a single download
const MaxDownloadBytes = 20 << 20

const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime, size)"

const googleAppsPrefix = "application/vnd.google-apps."

// Provider is the storage API surface the browser relies on
type Provider interface {
	ListFiles(ctx context.Context, query string, pageSize int64) ([]domain.DriveFile, error)
	GetFile(ctx context.Context, id string) (*domain.Document, error)
}

// ProviderFactory builds a Provider for an authenticated token source
type ProviderFactory func(ctx context.Context, ts oauth2.TokenSource) (Provider, error)

// apiProvider talks to the Drive v3 REST API
type apiProvider struct {
	srv      *drive.Service
	maxBytes int64
}

// NewAPIProvider creates a Provider backed by the Drive v3 API
func NewAPIProvider(ctx context.Context, ts oauth2.TokenSource) (Provider, error) {
	p, err := newServiceProvider(ctx, MaxDownloadBytes, option.WithTokenSource(ts))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newServiceProvider(ctx context.Context, maxBytes int64, opts ...option.ClientOption) (*apiProvider, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &apiProvider{srv: srv, maxBytes: maxBytes}, nil
}

func (p *apiProvider) ListFiles(ctx context.Context, query string, pageSize int64) ([]domain.DriveFile, error) {
	list, err := p.srv.Files.List().
		PageSize(pageSize).
		Fields(listFields).
		Q(query).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive list: %w", err)
	}

	files := make([]domain.DriveFile, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, toDriveFile(f))
	}
	return files, nil
}

func (p *apiProvider) GetFile(ctx context.Context, id string) (*domain.Document, error) {
	meta, err := p.srv.Files.Get(id).Fields("id, name, mimeType").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drive get metadata: %w", err)
	}

	mimeType := meta.MimeType
	var resp *http.Response
	if strings.HasPrefix(mimeType, googleAppsPrefix) {
		// Native Google documents have no binary content and must be exported
		mimeType = exportType(mimeType)
		resp, err = p.srv.Files.Export(id, mimeType).Context(ctx).Download()
	} else {
		resp, err = p.srv.Files.Get(id).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("drive read body: %w", err)
	}
	if int64(len(content)) > p.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %s", domain.ErrFileTooLarge, meta.Name, humanize.Bytes(uint64(p.maxBytes)))
	}

	return &domain.Document{
		Name:     meta.Name,
		MimeType: mimeType,
		Content:  content,
	}, nil
}

func exportType(mimeType string) string {
	if mimeType == googleAppsPrefix+"spreadsheet" {
		return domain.MimeTypeCSV
	}
	return domain.MimeTypeText
}

func toDriveFile(f *drive.File) domain.DriveFile {
	file := domain.DriveFile{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
	}
	if f.Size > 0 {
		file.Size = humanize.Bytes(uint64(f.Size))
	}
	return file
}
