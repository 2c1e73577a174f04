package service

// TaskManager defines the server-side behaviour for the core task lifecycle
// JSON-RPC methods.  Each method does its own validation and returns a
// *errors.RpcError when the request is invalid or cannot be fulfilled.

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/errors"
	"github.com/verdantlabs/agora/pkg/stores"
)

type TaskManager interface {
	SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, *errors.RpcError)
	GetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, *errors.RpcError)
}

/*
Handler is the domain-logic boundary: it receives the latest user text plus
the accumulated conversation history and returns the agent's textual reply.
Anything behind it (mock datasets, SDK calls, further delegation) is opaque
to the task lifecycle.
*/
type Handler func(ctx context.Context, userText string, history []a2a.Message) (string, error)

/*
HandlerTaskManager owns the task lifecycle for one agent process: it upserts
tasks in the store, appends the incoming user turn, invokes the domain
handler, and appends the reply.  Handler failures are caught here and
converted to a JSON-RPC error; they never produce a malformed task and never
crash the process.
*/
type HandlerTaskManager struct {
	store   stores.TaskStore
	handler Handler
}

func NewHandlerTaskManager(store stores.TaskStore, handler Handler) *HandlerTaskManager {
	if store == nil {
		store = stores.NewInMemoryTaskStore()
	}

	return &HandlerTaskManager{
		store:   store,
		handler: handler,
	}
}

func (m *HandlerTaskManager) SendTask(
	ctx context.Context, params a2a.TaskSendParams,
) (*a2a.Task, *errors.RpcError) {
	if err := params.Validate(); err != nil {
		return nil, errors.ErrInvalidParams.WithMessagef("%v", err)
	}

	task, release := m.store.Acquire(params.ID, params.SessionID)
	defer release()

	task.AddMessage(params.Message)
	task.ToStatus(a2a.TaskStateWorking)

	// The handler sees a copy of the history so it can never reorder the
	// task's own record.
	history := make([]a2a.Message, len(task.History))
	copy(history, task.History)

	reply, err := m.handler(ctx, params.Message.Text(), history)

	if err != nil {
		log.Error("domain handler failed", "taskID", task.ID, "error", err)
		task.ToStatus(a2a.TaskStateFailed)
		return nil, errors.ErrInternal.WithMessagef("%v", err)
	}

	task.AddMessage(a2a.NewTextMessage(a2a.RoleAgent, reply))
	task.ToStatus(a2a.TaskStateCompleted)

	return responseCopy(task, params.HistoryLength), nil
}

func (m *HandlerTaskManager) GetTask(
	ctx context.Context, params a2a.TaskQueryParams,
) (*a2a.Task, *errors.RpcError) {
	task, ok := m.store.Get(params.ID)

	if !ok {
		return nil, errors.ErrTaskNotFound.WithMessagef("no task with id %q", params.ID)
	}

	return responseCopy(task, params.HistoryLength), nil
}

// responseCopy snapshots the task, optionally trimming returned history from
// the tail.  The stored history is never truncated.
func responseCopy(task *a2a.Task, historyLength *int) *a2a.Task {
	cp := *task

	history := task.History
	if historyLength != nil {
		history = task.TrimmedHistory(*historyLength)
	}

	cp.History = make([]a2a.Message, len(history))
	copy(cp.History, history)

	return &cp
}
