package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one entry in a conversation transcript. Turns are
// append-only and never edited.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
