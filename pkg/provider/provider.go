package provider

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/orchestrator"
)

// delegateToolName is the tool every classifier exposes to the model.  The
// model picks an agent by calling it with the agent's exact name.
const delegateToolName = "delegate_task"

/*
FromConfig builds the classifier named by the `classifier.provider` config
key.  Unknown or empty provider names fall back to the keyword classifier,
which needs no credentials and keeps the orchestrator usable offline.
*/
func FromConfig() orchestrator.Classifier {
	v := viper.GetViper()

	switch v.GetString("classifier.provider") {
	case "openai":
		return NewOpenAIClassifier(v.GetString("classifier.model"))
	case "anthropic":
		return NewAnthropicClassifier(v.GetString("classifier.model"))
	default:
		return NewKeywordClassifier()
	}
}

type delegateArgs struct {
	AgentName string `json:"agent_name"`
}

func routingPrompt(agents []a2a.AgentCard) string {
	var sb strings.Builder

	sb.WriteString("You are a request router for a network of agents. ")
	sb.WriteString("Pick the single agent best suited to handle the user's request ")
	sb.WriteString("and call ")
	sb.WriteString(delegateToolName)
	sb.WriteString(" with its exact name. ")
	sb.WriteString("If no agent fits, respond with plain text and do not call the tool.\n\n")
	sb.WriteString("Available agents:\n")

	for _, card := range agents {
		sb.WriteString(card.Summary())
		sb.WriteString("\n")
	}

	return sb.String()
}

func agentNames(agents []a2a.AgentCard) []string {
	names := make([]string, len(agents))

	for i, card := range agents {
		names[i] = card.Name
	}

	return names
}

// knownAgent guards against the model inventing an agent name.
func knownAgent(name string, agents []a2a.AgentCard) bool {
	for _, card := range agents {
		if card.Name == name {
			return true
		}
	}

	return false
}
