package service

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/errors"
	"github.com/verdantlabs/agora/pkg/jsonrpc"
)

/*
AgentServer exposes a TaskManager and an AgentCard over HTTP using JSON-RPC
2.0 framing.  The protocol is strict request/reply: no server-initiated push.
From the wire's point of view every agent, the orchestrator included, is one
of these.
*/
type AgentServer struct {
	app     *fiber.App
	card    a2a.AgentCard
	manager TaskManager
	auth    *TokenVerifier
}

type AgentServerOption func(*AgentServer)

// WithTokenVerifier protects the RPC endpoint with bearer-token auth.  The
// card path stays open regardless.
func WithTokenVerifier(verifier *TokenVerifier) AgentServerOption {
	return func(srv *AgentServer) {
		srv.auth = verifier
	}
}

func NewAgentServer(card a2a.AgentCard, manager TaskManager, options ...AgentServerOption) *AgentServer {
	srv := &AgentServer{
		app: fiber.New(fiber.Config{
			AppName:      card.Name,
			ServerHeader: "Agora-Agent-Server",
		}),
		card:    card,
		manager: manager,
	}

	for _, option := range options {
		option(srv)
	}

	srv.routes()

	return srv
}

func (srv *AgentServer) routes() {
	srv.app.Use(logger.New(), healthcheck.NewHealthChecker())

	srv.app.Get("/", srv.handleRoot)
	srv.app.Get(a2a.WellKnownCardPath, srv.handleAgentCard)
	// Legacy path some A2A clients still probe.
	srv.app.Get("/.well-known/agent.json", srv.handleAgentCard)

	srv.app.Post("/", srv.handleRPC)
	srv.app.Post("/rpc", srv.handleRPC)
}

// App exposes the underlying fiber app for in-process testing.
func (srv *AgentServer) App() *fiber.App {
	return srv.app
}

// Listen blocks serving HTTP on addr.
func (srv *AgentServer) Listen(addr string) error {
	log.Info("agent server listening", "agent", srv.card.Name, "addr", addr)
	return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (srv *AgentServer) handleRoot(ctx fiber.Ctx) error {
	return ctx.SendString("OK")
}

func (srv *AgentServer) handleAgentCard(ctx fiber.Ctx) error {
	return ctx.JSON(srv.card)
}

/*
handleRPC is the central routing point for the task protocol.  Protocol
errors map to HTTP 400, internal failures to HTTP 500; application-range
errors (task not found) travel inside a 200 envelope.  The request id is
echoed whenever it could be parsed, null otherwise.
*/
func (srv *AgentServer) handleRPC(ctx fiber.Ctx) error {
	ctx.Set("Content-Type", "application/json")

	if srv.auth != nil {
		if err := srv.auth.Verify(ctx.Get("Authorization")); err != nil {
			log.Warn("rejected rpc call", "agent", srv.card.Name, "error", err)
			return ctx.SendStatus(http.StatusUnauthorized)
		}
	}

	var request jsonrpc.Request

	if err := ctx.Bind().Body(&request); err != nil {
		return srv.respondError(ctx, nil, errors.ErrInvalidRequest.WithMessagef("invalid request body: %v", err))
	}

	if request.JSONRPC != jsonrpc.Version {
		return srv.respondError(ctx, request.ID, errors.ErrInvalidRequest)
	}

	switch request.Method {
	case "tasks/send":
		var params a2a.TaskSendParams

		if err := json.Unmarshal(request.Params, &params); err != nil {
			return srv.respondError(ctx, request.ID, errors.ErrInvalidParams.WithMessagef("%v", err))
		}

		task, rpcErr := srv.manager.SendTask(ctx.Context(), params)

		if rpcErr != nil {
			return srv.respondError(ctx, request.ID, rpcErr)
		}

		return srv.respondResult(ctx, request.ID, task)

	case "tasks/get":
		var params a2a.TaskQueryParams

		if err := json.Unmarshal(request.Params, &params); err != nil {
			return srv.respondError(ctx, request.ID, errors.ErrInvalidParams.WithMessagef("%v", err))
		}

		task, rpcErr := srv.manager.GetTask(ctx.Context(), params)

		if rpcErr != nil {
			return srv.respondError(ctx, request.ID, rpcErr)
		}

		return srv.respondResult(ctx, request.ID, task)

	default:
		return srv.respondError(
			ctx,
			request.ID,
			errors.ErrMethodNotFound.WithMessagef("Method not found: %s", request.Method),
		)
	}
}

func (srv *AgentServer) respondResult(ctx fiber.Ctx, id json.RawMessage, result any) error {
	resp, err := jsonrpc.NewResponse(id, result)

	if err != nil {
		return srv.respondError(ctx, id, errors.ErrInternal.WithMessagef("%v", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(resp)
}

func (srv *AgentServer) respondError(ctx fiber.Ctx, id json.RawMessage, e *errors.RpcError) error {
	return ctx.Status(httpStatusFor(e)).JSON(jsonrpc.NewErrorResponse(id, e))
}

func httpStatusFor(e *errors.RpcError) int {
	switch e.Code {
	case errors.ErrParseError.Code,
		errors.ErrInvalidRequest.Code,
		errors.ErrMethodNotFound.Code,
		errors.ErrInvalidParams.Code:
		return fiber.StatusBadRequest
	case errors.ErrInternal.Code:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusOK
	}
}
