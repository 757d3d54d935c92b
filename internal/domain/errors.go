package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoDocument indicates no document is selected or present
	ErrNoDocument = errors.New("no document selected")
	// ErrUnsupportedFileType indicates the file extension is not accepted
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrFileTooLarge indicates the upload exceeds the configured limit
	ErrFileTooLarge = errors.New("file too large")
	// ErrEmptyMessage indicates a blank chat message
	ErrEmptyMessage = errors.New("empty message")
	// ErrRequestInFlight indicates the surface already has a pending request
	ErrRequestInFlight = errors.New("request already in progress")
	// ErrUpstream indicates the analysis or storage provider failed
	ErrUpstream = errors.New("upstream service failure")
	// ErrDriveNotAuthenticated indicates no Drive token is held
	ErrDriveNotAuthenticated = errors.New("drive not authenticated")
)

// ErrDriveNotConfigured indicates no Drive OAuth client is configured
var ErrDriveNotConfigured = errors.New("drive not configured")
