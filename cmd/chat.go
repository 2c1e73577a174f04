package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/client"
)

var (
	chatURLFlag   string
	chatTokenFlag string

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Chat with an agent from the terminal",
		Long:  longChat,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := chatURLFlag

			if url == "" {
				url = viper.GetString("endpoints.orchestrator")
			}

			card, err := fetchAgentCard(cmd.Context(), url)

			if err != nil {
				return fmt.Errorf("could not reach agent at %s: %w", url, err)
			}

			fmt.Println(card)

			var options []client.ChatClientOption

			if chatTokenFlag != "" {
				options = append(options, client.WithToken(chatTokenFlag))
			}

			chat := client.NewChatClient(*card, options...)

			log.Info("chat session started", "agent", card.Name, "sessionId", chat.SessionID)

			for {
				var input string

				prompt := huh.NewInput().
					Title(fmt.Sprintf("Message %s (or /quit)", card.Name)).
					Value(&input)

				if err := prompt.Run(); err != nil {
					return err
				}

				input = strings.TrimSpace(input)

				if input == "" {
					continue
				}

				if input == "/quit" || input == "/exit" {
					return nil
				}

				if _, err := chat.Send(cmd.Context(), input); err != nil {
					log.Error("send failed", "error", err)
					continue
				}

				fmt.Println(chat)
			}
		},
	}
)

// fetchAgentCard reads the agent's well-known card so the chat session can
// display who it is talking to.
func fetchAgentCard(ctx context.Context, baseURL string) (*a2a.AgentCard, error) {
	url := strings.TrimRight(baseURL, "/") + a2a.WellKnownCardPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent card request returned %d", resp.StatusCode)
	}

	var card a2a.AgentCard

	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, err
	}

	return &card, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatURLFlag, "url", "u", "", "Agent base URL (default: the configured orchestrator)")
	chatCmd.Flags().StringVarP(&chatTokenFlag, "token", "t", "", "Bearer token for authenticated agents")
}

var longChat = `
Open an interactive chat session with an agent.  Without --url the session
targets the orchestrator, which routes each message to the best marketplace
agent.

Examples:
  # Chat through the orchestrator
  agora chat

  # Chat with the greeting agent directly
  agora chat --url http://localhost:3001
`
