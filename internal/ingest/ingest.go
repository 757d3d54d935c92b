package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/liliang-cn/buildsense/internal/domain"
)

// extensionTypes maps accepted local extensions to their MIME types
var extensionTypes = map[string]string{
	".txt":  domain.MimeTypeText,
	".csv":  domain.MimeTypeCSV,
	".json": domain.MimeTypeJSON,
	".pdf":  domain.MimeTypePDF,
}

// DefaultMaxBytes caps local uploads when no limit is configured
const DefaultMaxBytes = 20 << 20

// RemoteSource fetches cloud file content
type RemoteSource interface {
	GetFileContent(ctx context.Context, id string) (*domain.Document, error)
}

// Adapter resolves document content from uploads or cloud files
type Adapter struct {
	remote   RemoteSource
	maxBytes int64
}

// NewAdapter creates a new ingestion adapter
func NewAdapter(remote RemoteSource, maxBytes int64) *Adapter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Adapter{remote: remote, maxBytes: maxBytes}
}

// IsSupported checks if a file name has an accepted extension
func IsSupported(filename string) bool {
	_, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// SupportedExtensions lists the accepted local extensions
func SupportedExtensions() []string {
	return []string{".txt", ".csv", ".json", ".pdf"}
}

// LoadUpload reads an uploaded multipart file
func (a *Adapter) LoadUpload(file *multipart.FileHeader) (*domain.Document, error) {
	if file == nil {
		return nil, domain.ErrNoDocument
	}
	if file.Size > a.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, file.Size)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return a.ReadLocal(file.Filename, src)
}

// ReadLocal reads a local document in full. PDFs keep their raw bytes.
func (a *Adapter) ReadLocal(name string, r io.Reader) (*domain.Document, error) {
	if name == "" || r == nil {
		return nil, domain.ErrNoDocument
	}
	if !IsSupported(name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, filepath.Ext(name))
	}

	content, err := io.ReadAll(io.LimitReader(r, a.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(content)) > a.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	return &domain.Document{
		Name:     name,
		MimeType: DetectMimeType(name, content),
		Content:  content,
	}, nil
}

// DetectMimeType sniffs PDF signatures and otherwise trusts the extension
func DetectMimeType(name string, content []byte) string {
	if mimetype.Detect(content).Is(domain.MimeTypePDF) {
		return domain.MimeTypePDF
	}
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return domain.MimeTypeText
}

// Resolve produces the content of the selected document.
// Remote references go to the cloud source; local ones use the held upload.
func (a *Adapter) Resolve(ctx context.Context, ref *domain.DocumentRef, local *domain.Document) (*domain.Document, error) {
	if ref == nil {
		return nil, domain.ErrNoDocument
	}
	if ref.IsRemote() {
		if a.remote == nil {
			return nil, domain.ErrDriveNotConfigured
		}
		doc, err := a.remote.GetFileContent(ctx, ref.ID)
		if errors.Is(err, domain.ErrFileTooLarge) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		return doc, nil
	}
	if local == nil {
		return nil, domain.ErrNoDocument
	}
	return local, nil
}
