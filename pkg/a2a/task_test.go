package a2a

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task := NewTask("task-1", "session-1")

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "session-1", task.SessionID)
	assert.Equal(t, TaskStateSubmitted, task.Status.State)
	assert.False(t, task.Status.Timestamp.IsZero())
	assert.Empty(t, task.History)
}

func TestTaskHistoryIsAppendOnly(t *testing.T) {
	task := NewTask("task-1", "session-1")

	task.AddMessage(NewTextMessage(RoleUser, "hi"))
	task.AddMessage(NewTextMessage(RoleAgent, "hello"))
	task.AddMessage(NewTextMessage(RoleUser, "what time is it?"))

	require.Len(t, task.History, 3)
	assert.Equal(t, "hi", task.History[0].Text())
	assert.Equal(t, RoleAgent, task.History[1].Role)
	assert.Equal(t, "what time is it?", task.LastMessage().Text())
	assert.Equal(t, "hello", task.LastAgentText())
}

func TestTrimmedHistory(t *testing.T) {
	task := NewTask("task-1", "session-1")

	for i := 0; i < 5; i++ {
		task.AddMessage(NewTextMessage(RoleUser, "turn"))
	}

	assert.Len(t, task.TrimmedHistory(0), 5)
	assert.Len(t, task.TrimmedHistory(-1), 5)
	assert.Len(t, task.TrimmedHistory(2), 2)
	assert.Len(t, task.TrimmedHistory(99), 5)
}

func TestTaskSendParamsValidate(t *testing.T) {
	valid := TaskSendParams{
		ID:        "task-1",
		SessionID: "session-1",
		Message:   NewTextMessage(RoleUser, "hi"),
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		params TaskSendParams
	}{
		{"missing id", TaskSendParams{SessionID: "s", Message: NewTextMessage(RoleUser, "hi")}},
		{"missing session", TaskSendParams{ID: "t", Message: NewTextMessage(RoleUser, "hi")}},
		{"empty message", TaskSendParams{ID: "t", SessionID: "s"}},
		{"blank text", TaskSendParams{ID: "t", SessionID: "s", Message: NewTextMessage(RoleUser, "")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.params.Validate())
		})
	}
}

func TestTaskWireFormat(t *testing.T) {
	task := NewTask("task-1", "session-1")
	task.AddMessage(NewTextMessage(RoleUser, "hi"))

	b, err := json.Marshal(task)
	require.NoError(t, err)

	assert.Contains(t, string(b), `"sessionId":"session-1"`)
	assert.Contains(t, string(b), `"state":"submitted"`)
	assert.Contains(t, string(b), `"type":"text"`)

	var decoded Task
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, task.ID, decoded.ID)
	require.Len(t, decoded.History, 1)
	assert.Equal(t, "hi", decoded.History[0].Text())
}
