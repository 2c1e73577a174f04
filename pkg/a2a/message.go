package a2a

import "strings"

// Message roles as they appear on the wire.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

/*
Message represents a single conversation turn between client and agent.
Messages are immutable once created; histories grow by appending, never by
editing.
*/
type Message struct {
	Role     string         `json:"role"` // "user" or "agent"
	Parts    []Part         `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func NewTextMessage(role string, text string) Message {
	return Message{
		Role:  role,
		Parts: []Part{NewTextPart(text)},
	}
}

// Text joins the message's text parts into a single string.
func (msg Message) Text() string {
	var sb strings.Builder

	for _, part := range msg.Parts {
		if part.Type == PartTypeText {
			sb.WriteString(part.Text)
		}
	}

	return sb.String()
}

// HasText reports whether at least one non-empty text part is present.
func (msg Message) HasText() bool {
	for _, part := range msg.Parts {
		if part.Type == PartTypeText && part.Text != "" {
			return true
		}
	}

	return false
}
