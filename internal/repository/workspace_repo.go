package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/buildsense/internal/domain"
)

// WorkspaceRepository handles workspace and transcript persistence
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(ws *domain.Workspace) error {
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	ws.CreatedAt = now
	ws.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO workspaces (id, created_at, updated_at)
		VALUES (?, ?, ?)
	`, ws.ID, ws.CreatedAt, ws.UpdatedAt)

	return err
}

// Get retrieves a workspace by ID
func (r *WorkspaceRepository) Get(id string) (*domain.Workspace, error) {
	ws := &domain.Workspace{}
	var name, fileID sql.NullString

	err := r.db.QueryRow(`
		SELECT id, selection_name, selection_id, created_at, updated_at
		FROM workspaces WHERE id = ?
	`, id).Scan(&ws.ID, &name, &fileID, &ws.CreatedAt, &ws.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if name.Valid && name.String != "" {
		ws.Selection = &domain.DocumentRef{Name: name.String, ID: fileID.String}
	}

	return ws, nil
}

// SetSelection replaces the selected document of a workspace
func (r *WorkspaceRepository) SetSelection(id string, ref domain.DocumentRef) error {
	res, err := r.db.Exec(`
		UPDATE workspaces SET selection_name = ?, selection_id = ?, updated_at = ?
		WHERE id = ?
	`, ref.Name, ref.ID, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Touch updates a workspace's updated_at timestamp
func (r *WorkspaceRepository) Touch(id string) error {
	_, err := r.db.Exec(`UPDATE workspaces SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

// CreateMessage appends a message to a workspace transcript.
// Timestamps never go backwards within a transcript.
func (r *WorkspaceRepository) CreateMessage(message *domain.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.Timestamp = time.Now().UTC()

	var last sql.NullTime
	err := r.db.QueryRow(`
		SELECT created_at FROM messages WHERE workspace_id = ?
		ORDER BY seq DESC LIMIT 1
	`, message.WorkspaceID).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if last.Valid && message.Timestamp.Before(last.Time) {
		message.Timestamp = last.Time
	}

	_, err = r.db.Exec(`
		INSERT INTO messages (id, workspace_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, message.ID, message.WorkspaceID, string(message.Role), message.Content, message.Timestamp)

	return err
}

// GetMessages retrieves the transcript of a workspace in insertion order
func (r *WorkspaceRepository) GetMessages(workspaceID string) ([]domain.ChatMessage, error) {
	rows, err := r.db.Query(`
		SELECT id, workspace_id, role, content, created_at
		FROM messages WHERE workspace_id = ?
		ORDER BY seq ASC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var m domain.ChatMessage
		var role string
		if err := rows.Scan(&m.ID, &m.WorkspaceID, &role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// CountMessages returns the number of messages by role across all workspaces
func (r *WorkspaceRepository) CountMessages(role domain.Role) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE role = ?`, string(role)).Scan(&count)
	return count, err
}

// CountWorkspaces returns the number of workspaces
func (r *WorkspaceRepository) CountWorkspaces() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM workspaces`).Scan(&count)
	return count, err
}
