package domain

import "time"

// RequestState tracks one interaction surface of a workspace
type RequestState string

const (
	RequestStateIdle    RequestState = "idle"
	RequestStatePending RequestState = "pending"
	RequestStateDone    RequestState = "done"
	RequestStateFailed  RequestState = "failed"
)

// Workspace holds the transient state of one dashboard session
type Workspace struct {
	ID            string            `json:"id"`
	Selection     *DocumentRef      `json:"selection,omitempty"`
	AnalysisState RequestState      `json:"analysis_state"`
	ChatState     RequestState      `json:"chat_state"`
	Result        *DetailedAnalysis `json:"result,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// WorkspaceView is the dashboard view of a workspace
type WorkspaceView struct {
	Workspace
	Messages []ChatMessage `json:"messages"`
}

// AnalysisReport is the response for an analysis run
type AnalysisReport struct {
	WorkspaceID string            `json:"workspace_id"`
	Document    DocumentRef       `json:"document"`
	State       RequestState      `json:"state"`
	Result      *DetailedAnalysis `json:"result,omitempty"`
}

// Stats represents usage counters since process start
type Stats struct {
	TotalWorkspaces int `json:"total_workspaces"`
	TotalChats      int `json:"total_chats"`
	TotalAnalyses   int `json:"total_analyses"`
	FailedAnalyses  int `json:"failed_analyses"`
}
