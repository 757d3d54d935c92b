package domain

import "strings"

// MIME types handled specially by ingestion and analysis
const (
	MimeTypePDF   = "application/pdf"
	MimeTypeText  = "text/plain"
	MimeTypeCSV   = "text/csv"
	MimeTypeJSON  = "application/json"
	MimeTypeDrive = "application/vnd.google-apps.folder"
)

// DocumentRef identifies the selected document. ID is set for remote files only.
type DocumentRef struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// IsRemote reports whether the reference points at a cloud file
func (r DocumentRef) IsRemote() bool {
	return r.ID != ""
}

// NewLocalRef creates a reference for an uploaded file
func NewLocalRef(name string) DocumentRef {
	return DocumentRef{Name: strings.ToUpper(name)}
}

// NewRemoteRef creates a reference for a cloud file
func NewRemoteRef(id, name string) DocumentRef {
	return DocumentRef{Name: strings.ToUpper(name), ID: id}
}

// Document is resolved document content ready for analysis
type Document struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"-"`
}

// IsPDF reports whether the document should be sent as inline binary data
func (d *Document) IsPDF() bool {
	return d.MimeType == MimeTypePDF
}

// DriveFile represents a remote file reference
type DriveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
	Size         string `json:"size,omitempty"`
}

// SelectDriveFileRequest is the request to select a cloud file
type SelectDriveFileRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// DriveFileListResponse is the response for listing cloud files
type DriveFileListResponse struct {
	Files    []DriveFile `json:"files"`
	DemoMode bool        `json:"demo_mode"`
}
