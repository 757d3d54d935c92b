package domain

import "time"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Transcript prefixes used when rendering a conversation turn
const (
	UserInquiryPrefix  = "> USER_INQUIRY: "
	AdvisorLogPrefix   = "> ADVISOR_LOG: "
	NullResponseMarker = "ERR_NULL_RESPONSE"
)

// WelcomeMessage opens every new transcript
const WelcomeMessage = "> BuildSense_AI Uplink Established.\n> Analyzing project telemetry...\n> Ready for strategic advisement."

// ChatMessage represents one entry of a workspace transcript
type ChatMessage struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

// HistoryEntry is the role/content pair handed to the advisory service
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the response to a chat message
type ChatResponse struct {
	WorkspaceID string        `json:"workspace_id"`
	Reply       *ChatMessage  `json:"reply"`
	Messages    []ChatMessage `json:"messages"`
}

// History converts a transcript into advisory history, dropping system messages
func History(messages []ChatMessage) []HistoryEntry {
	history := make([]HistoryEntry, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			continue
		}
		history = append(history, HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return history
}
