package provider

import (
	"context"
	"encoding/json"
	"os"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"
	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
AnthropicClassifier routes requests by asking a Claude model to call the
delegate tool with the name of the best-matching agent.
*/
type AnthropicClassifier struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClassifier(model string) *AnthropicClassifier {
	return &AnthropicClassifier{
		client: anthropic.NewClient(
			option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
		),
		model: model,
	}
}

func (clf *AnthropicClassifier) Classify(
	ctx context.Context, text string, agents []a2a.AgentCard,
) (string, error) {
	if len(agents) == 0 {
		return "", nil
	}

	message, err := clf.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(clf.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: routingPrompt(agents)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        delegateToolName,
					Description: anthropic.String("Hand the user's request to the named agent."),
					InputSchema: anthropic.ToolInputSchemaParam{
						Properties: map[string]any{
							"agent_name": map[string]any{
								"type": "string",
								"enum": agentNames(agents),
							},
						},
					},
				},
			},
		},
	})

	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)

		if !ok || toolUse.Name != delegateToolName {
			continue
		}

		var args delegateArgs

		if err := json.Unmarshal([]byte(toolUse.Input), &args); err != nil {
			log.Warn("malformed delegate arguments", "error", err)
			continue
		}

		if knownAgent(args.AgentName, agents) {
			return args.AgentName, nil
		}

		log.Warn("model picked unknown agent", "agent", args.AgentName)
	}

	return "", nil
}
