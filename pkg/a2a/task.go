package a2a

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	v "github.com/cohesivestack/valgo"
)

/*
Task is the central mutable entity of the protocol: a conversation record
keyed by id, holding an append-only message history and a status.  A Task is
exclusively owned by the agent process that created it; every hop in a
delegation chain creates its own record.
*/
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitempty"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewTask(id, sessionID string) *Task {
	return &Task{
		ID:        id,
		SessionID: sessionID,
		Status: TaskStatus{
			State:     TaskStateSubmitted,
			Timestamp: time.Now().UTC(),
		},
	}
}

// ToStatus transitions the task and stamps the transition time.
func (task *Task) ToStatus(state TaskState) {
	task.Status.State = state
	task.Status.Timestamp = time.Now().UTC()
}

// AddMessage appends a turn to the history.  History is append-only; callers
// must never reorder or truncate it.
func (task *Task) AddMessage(msg Message) {
	task.History = append(task.History, msg)
}

// LastMessage returns the most recent turn, or nil for an empty history.
func (task *Task) LastMessage() *Message {
	if len(task.History) == 0 {
		return nil
	}

	return &task.History[len(task.History)-1]
}

// LastAgentText returns the text of the most recent agent-role turn.
func (task *Task) LastAgentText() string {
	for i := len(task.History) - 1; i >= 0; i-- {
		if task.History[i].Role == RoleAgent {
			return task.History[i].Text()
		}
	}

	return ""
}

// TrimmedHistory returns the last n turns without mutating the task.  A
// non-positive n returns the full history.
func (task *Task) TrimmedHistory(n int) []Message {
	if n <= 0 || n >= len(task.History) {
		return task.History
	}

	return task.History[len(task.History)-n:]
}

// TaskSendParams carries the arguments of a tasks/send call.
type TaskSendParams struct {
	// ID is the unique identifier for the task being initiated or continued.
	ID string `json:"id"`
	// SessionID groups related tasks into a conversation.
	SessionID string `json:"sessionId,omitempty"`
	// Message is the user turn to append and process.
	Message Message `json:"message"`
	// HistoryLength optionally caps how much history the response includes.
	HistoryLength *int `json:"historyLength,omitempty"`
	// Metadata is optional metadata associated with this send.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate checks the preconditions of tasks/send: non-empty identifiers and
// at least one non-empty text part.
func (params TaskSendParams) Validate() error {
	val := v.Is(
		v.String(params.ID, "id").Not().Blank(),
		v.String(params.SessionID, "sessionId").Not().Blank(),
	)

	if !val.Valid() {
		return fmt.Errorf("invalid task send params: %s", firstValgoError(val))
	}

	if !params.Message.HasText() {
		return fmt.Errorf("invalid task send params: message requires at least one text part")
	}

	return nil
}

func firstValgoError(val *v.Validation) string {
	for name, err := range val.Errors() {
		msgs := err.Messages()
		if len(msgs) > 0 {
			return msgs[0]
		}
		return name
	}
	return "validation failed"
}

// TaskQueryParams carries the arguments of a tasks/get call.
type TaskQueryParams struct {
	ID            string `json:"id"`
	SessionID     string `json:"sessionId,omitempty"`
	HistoryLength *int   `json:"historyLength,omitempty"`
}

func (task *Task) String() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	indent := "   "
	bullet := "│ "

	sb.WriteString(headerStyle.Render("Task") + "\n")
	sb.WriteString(bullet + labelStyle.Render("ID: ") + valueStyle.Render(task.ID) + "\n")
	if task.SessionID != "" {
		sb.WriteString(bullet + labelStyle.Render("Session ID: ") + valueStyle.Render(task.SessionID) + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Status") + "\n")
	sb.WriteString(bullet + labelStyle.Render("State: ") + valueStyle.Render(string(task.Status.State)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Timestamp: ") + valueStyle.Render(task.Status.Timestamp.Format(time.RFC3339)) + "\n")

	if len(task.History) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("History") + "\n")
		for i, message := range task.History {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Message %d", i+1)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Role: ") + valueStyle.Render(message.Role) + "\n")
			for _, part := range message.Parts {
				sb.WriteString(bullet + indent + labelStyle.Render("Content: ") + valueStyle.Render(part.Text) + "\n")
			}
		}
	}

	return sb.String()
}
