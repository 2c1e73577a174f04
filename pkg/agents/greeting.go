package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
GreetingAgent replies to greetings.  It is the simplest agent in the
marketplace and doubles as the smoke-test target for the full protocol
round trip.
*/
type GreetingAgent struct{}

func NewGreetingAgent() *GreetingAgent {
	return &GreetingAgent{}
}

func (agent *GreetingAgent) Handle(ctx context.Context, userText string, history []a2a.Message) (string, error) {
	lowered := strings.ToLower(userText)

	switch {
	case strings.Contains(lowered, "goodbye"), strings.Contains(lowered, "bye"):
		return "Goodbye! Come back any time.", nil
	case strings.Contains(lowered, "how are you"):
		return "I'm doing great, thanks for asking! How can I help you today?", nil
	default:
		if len(history) > 2 {
			return fmt.Sprintf("Hello again! We have exchanged %d messages so far.", len(history)), nil
		}

		return "Hello there! Welcome to the agent marketplace. How can I help you today?", nil
	}
}
