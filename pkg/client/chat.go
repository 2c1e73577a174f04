package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/jsonrpc"
)

// DefaultSendTimeout bounds a single chat turn, including the remote agent's
// own downstream delegation.
const DefaultSendTimeout = 120 * time.Second

/*
ChatClient drives a conversation with one agent over the task protocol.  The
session id is fixed for the client's lifetime; every message becomes a fresh
task inside that session, which is how multi-turn context stays grouped
server side.
*/
type ChatClient struct {
	Card      a2a.AgentCard
	SessionID string

	rpcClient  *jsonrpc.RPCClient
	transcript []a2a.Message
	timeout    time.Duration
}

type ChatClientOption func(*ChatClient)

// WithToken attaches a bearer token to every RPC call.
func WithToken(token string) ChatClientOption {
	return func(chat *ChatClient) {
		chat.rpcClient.Token = token
	}
}

// WithSendTimeout overrides the per-turn timeout.
func WithSendTimeout(timeout time.Duration) ChatClientOption {
	return func(chat *ChatClient) {
		chat.timeout = timeout
	}
}

func NewChatClient(card a2a.AgentCard, options ...ChatClientOption) *ChatClient {
	chat := &ChatClient{
		Card:      card,
		SessionID: uuid.NewString(),
		rpcClient: jsonrpc.NewRPCClient(strings.TrimRight(card.URL, "/") + "/"),
		timeout:   DefaultSendTimeout,
	}

	for _, option := range options {
		option(chat)
	}

	return chat
}

/*
Send posts one user message as a new task in the client's session and
returns the agent's reply text.  Both sides of the exchange are appended to
the local transcript for rendering.
*/
func (chat *ChatClient) Send(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, chat.timeout)
	defer cancel()

	params := a2a.TaskSendParams{
		ID:        uuid.NewString(),
		SessionID: chat.SessionID,
		Message:   a2a.NewTextMessage(a2a.RoleUser, text),
	}

	log.Debug("sending chat turn", "agent", chat.Card.Name, "taskId", params.ID, "sessionId", chat.SessionID)

	var task a2a.Task

	if err := chat.rpcClient.Call(ctx, "tasks/send", params, &task); err != nil {
		return "", fmt.Errorf("send to %s failed: %w", chat.Card.Name, err)
	}

	reply := task.LastAgentText()

	if reply == "" {
		return "", fmt.Errorf("agent %s returned no reply", chat.Card.Name)
	}

	chat.transcript = append(chat.transcript,
		a2a.NewTextMessage(a2a.RoleUser, text),
		a2a.NewTextMessage(a2a.RoleAgent, reply),
	)

	return reply, nil
}

// GetTask fetches a task by id from the agent, trimmed to historyLength
// messages when historyLength is positive.
func (chat *ChatClient) GetTask(ctx context.Context, taskID string, historyLength int) (*a2a.Task, error) {
	params := a2a.TaskQueryParams{ID: taskID}

	if historyLength > 0 {
		params.HistoryLength = &historyLength
	}

	var task a2a.Task

	if err := chat.rpcClient.Call(ctx, "tasks/get", params, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

// Transcript returns a copy of the local conversation so far.
func (chat *ChatClient) Transcript() []a2a.Message {
	out := make([]a2a.Message, len(chat.transcript))
	copy(out, chat.transcript)

	return out
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// String renders the transcript for terminal display.
func (chat *ChatClient) String() string {
	var sb strings.Builder

	for _, msg := range chat.transcript {
		label := userStyle.Render("you")

		if msg.Role == a2a.RoleAgent {
			label = agentStyle.Render(chat.Card.Name)
		}

		sb.WriteString(label + " " + textStyle.Render(msg.Text()) + "\n")
	}

	return sb.String()
}
