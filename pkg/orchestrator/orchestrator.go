package orchestrator

// The orchestrator is itself an agent: it satisfies the same task protocol
// as every other marketplace service, and its domain logic is routing.  Per
// user message it classifies intent against the discovered agent set, then
// performs the same tasks/send call a chat client would make, but against
// the chosen child.  Exactly one child handles each message.

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/discovery"
	"github.com/verdantlabs/agora/pkg/errors"
	"github.com/verdantlabs/agora/pkg/jsonrpc"
)

// State names the phases a message passes through.  They exist for logging
// and tests; the flow itself is a straight line.
type State string

const (
	StateReceived    State = "received"
	StateClassifying State = "classifying"
	StateDelegating  State = "delegating"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// Agent names the composite purchase flow depends on.
const (
	paymentAgentName = "PaymentAgent"
	carbonAgentName  = "CarbonCreditAgent"
)

type Orchestrator struct {
	discovery  *discovery.Service
	classifier Classifier
	retry      *errors.RetryConfig

	// newRPCClient is swappable for tests.
	newRPCClient func(url string) *jsonrpc.RPCClient
}

type Option func(*Orchestrator)

// WithRetryConfig tunes the delegation retry policy.
func WithRetryConfig(cfg *errors.RetryConfig) Option {
	return func(o *Orchestrator) {
		o.retry = cfg
	}
}

func New(disc *discovery.Service, classifier Classifier, options ...Option) *Orchestrator {
	o := &Orchestrator{
		discovery:    disc,
		classifier:   classifier,
		retry:        errors.DefaultRetryConfig(),
		newRPCClient: jsonrpc.NewRPCClient,
	}

	for _, option := range options {
		option(o)
	}

	return o
}

/*
Handle is the orchestrator's domain handler, pluggable into
service.HandlerTaskManager like any other agent's business logic.  A routing
miss is a user-visible answer, not a protocol error; a delegation failure is
returned as an error so the task manager marks the task failed.
*/
func (o *Orchestrator) Handle(ctx context.Context, userText string, history []a2a.Message) (string, error) {
	log.Info("routing user message", "state", StateReceived, "text", userText)

	if reply, handled, err := o.tryPurchaseFlow(ctx, userText); handled {
		return reply, err
	}

	available := o.discovery.GetAvailableAgents()
	cards := make([]a2a.AgentCard, len(available))

	for i, agent := range available {
		cards[i] = agent.Card
	}

	log.Debug("classifying intent", "state", StateClassifying, "agents", len(cards))

	name, err := o.classifier.Classify(ctx, userText, cards)

	if err != nil {
		return "", fmt.Errorf("intent classification failed: %w", err)
	}

	if name == "" {
		log.Warn("no agent matched user message")
		return "I could not find a suitable agent for that request. Ask me about the marketplace agents I know.", nil
	}

	target, ok := o.discovery.GetAgent(name)

	if !ok || !target.IsAvailable {
		log.Warn("classifier chose unknown or unavailable agent", "name", name)
		return fmt.Sprintf("The %s agent is not available right now. Please try again later.", name), nil
	}

	reply, err := o.Delegate(ctx, target.Card, userText)

	if err != nil {
		return "", fmt.Errorf("delegation to %s failed: %w", name, err)
	}

	log.Info("delegation complete", "state", StateCompleted, "agent", name)

	return reply, nil
}

/*
Delegate issues a tasks/send call to the child agent with a freshly
generated task id and a fresh session id scoped to this hop.  The child
keeps its own task record; only the text travels.
*/
func (o *Orchestrator) Delegate(ctx context.Context, card a2a.AgentCard, message string) (string, error) {
	log.Debug("delegating to child agent", "state", StateDelegating, "agent", card.Name)

	client := o.newRPCClient(strings.TrimRight(card.URL, "/") + "/")

	params := a2a.TaskSendParams{
		ID:        uuid.NewString(),
		SessionID: uuid.NewString(),
		Message:   a2a.NewTextMessage(a2a.RoleUser, message),
	}

	var task a2a.Task

	err := errors.RetryWithBackoff(o.retry, func() error {
		return client.Call(ctx, "tasks/send", params, &task)
	})

	if err != nil {
		log.Error("child delegation failed", "state", StateFailed, "agent", card.Name, "error", err)
		return "", err
	}

	reply := task.LastAgentText()

	if reply == "" {
		return "", fmt.Errorf("agent %s returned no reply", card.Name)
	}

	return reply, nil
}

var purchasePattern = regexp.MustCompile(`(?i)\bbuy\s+([0-9]+(?:\.[0-9]+)?)\s+(?:carbon\s+)?credits?\b`)

/*
tryPurchaseFlow recognises the end-to-end purchase command and runs the
two-step flow the original marketplace performs: pay via the PaymentAgent,
then record the purchase with the CarbonCreditAgent.  Everything else falls
through to the single-hop classifier route.
*/
func (o *Orchestrator) tryPurchaseFlow(ctx context.Context, userText string) (string, bool, error) {
	match := purchasePattern.FindStringSubmatch(userText)

	if match == nil {
		return "", false, nil
	}

	credits, err := strconv.ParseFloat(match[1], 64)

	if err != nil || credits <= 0 {
		return "", false, nil
	}

	payment, ok := o.discovery.GetAgent(paymentAgentName)

	if !ok || !payment.IsAvailable {
		return "Carbon credit purchases need the PaymentAgent, which is not available right now.", true, nil
	}

	carbon, ok := o.discovery.GetAgent(carbonAgentName)

	if !ok || !carbon.IsAvailable {
		return "Carbon credit purchases need the CarbonCreditAgent, which is not available right now.", true, nil
	}

	quote, err := o.Delegate(ctx, carbon.Card, fmt.Sprintf("quote %v credits", credits))

	if err != nil {
		return "", true, fmt.Errorf("quote from %s failed: %w", carbonAgentName, err)
	}

	payText := fmt.Sprintf("Pay for %v credits: %s", credits, quote)
	receipt, err := o.Delegate(ctx, payment.Card, payText)

	if err != nil {
		return "", true, fmt.Errorf("payment via %s failed: %w", paymentAgentName, err)
	}

	record, err := o.Delegate(ctx, carbon.Card, fmt.Sprintf("record purchase of %v credits, receipt: %s", credits, receipt))

	if err != nil {
		return "", true, fmt.Errorf("purchase record via %s failed: %w", carbonAgentName, err)
	}

	return fmt.Sprintf("%s %s", receipt, record), true, nil
}
