package provider

import (
	"context"
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
OpenAIClassifier routes requests by asking an OpenAI chat model to call the
delegate tool with the name of the best-matching agent.  A completion that
calls no tool means the model found no suitable agent.
*/
type OpenAIClassifier struct {
	client openai.Client
	model  string
}

func NewOpenAIClassifier(model string) *OpenAIClassifier {
	return &OpenAIClassifier{
		client: openai.NewClient(
			option.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
		),
		model: model,
	}
}

func (clf *OpenAIClassifier) Classify(
	ctx context.Context, text string, agents []a2a.AgentCard,
) (string, error) {
	if len(agents) == 0 {
		return "", nil
	}

	completion, err := clf.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(clf.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(routingPrompt(agents)),
			openai.UserMessage(text),
		},
		Tools: []openai.ChatCompletionToolParam{
			{
				Function: openai.FunctionDefinitionParam{
					Name:        delegateToolName,
					Description: openai.String("Hand the user's request to the named agent."),
					Parameters: openai.FunctionParameters(map[string]any{
						"type": "object",
						"properties": map[string]any{
							"agent_name": map[string]any{
								"type": "string",
								"enum": agentNames(agents),
							},
						},
						"required": []string{"agent_name"},
					}),
				},
			},
		},
	})

	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}

	for _, toolCall := range completion.Choices[0].Message.ToolCalls {
		if toolCall.Function.Name != delegateToolName {
			continue
		}

		var args delegateArgs

		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
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
