package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/agents"
	"github.com/verdantlabs/agora/pkg/catalog"
	"github.com/verdantlabs/agora/pkg/discovery"
	"github.com/verdantlabs/agora/pkg/orchestrator"
	"github.com/verdantlabs/agora/pkg/provider"
	"github.com/verdantlabs/agora/pkg/service"
	"github.com/verdantlabs/agora/pkg/stores"
)

var (
	portFlag      int
	hostFlag      string
	agentNameFlag string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run marketplace services",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	agentCmd = &cobra.Command{
		Use:   "agent",
		Short: "Serve a domain agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			card := a2a.NewAgentCardFromConfig(agentNameFlag)

			if card.Name == "" {
				return fmt.Errorf("no agent configured under agent.%s", agentNameFlag)
			}

			handler, ok := agents.ForName(card.Name)

			if !ok {
				return fmt.Errorf("no handler for agent %s", card.Name)
			}

			return serveAgent(*card, handler)
		},
	}

	orchestratorCmd = &cobra.Command{
		Use:   "orchestrator",
		Short: "Serve the routing orchestrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			card := a2a.NewAgentCardFromConfig("orchestrator")

			var options []discovery.ServiceOption

			if interval := viper.GetDuration("discovery.probe_interval"); interval > 0 {
				options = append(options, discovery.WithProbeInterval(interval))
			}

			disc := discovery.NewService(options...)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			found := disc.Discover(ctx, viper.GetStringSlice("discovery.registry"))
			log.Info("initial discovery complete", "agents", len(found))

			disc.Start(ctx)
			defer disc.Stop()

			orch := orchestrator.New(disc, provider.FromConfig())

			return serveAgent(*card, orch.Handle)
		},
	}

	catalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Serve the agent catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := service.NewCatalogServer()

			addr := fmt.Sprintf("%s:%d", hostFlag, portFlag)
			log.Info("catalog listening", "addr", addr)

			return srv.Listen(addr)
		},
	}
)

// serveAgent wires the shared agent plumbing: task store, task manager,
// optional bearer auth, catalog registration, then the blocking listener.
func serveAgent(card a2a.AgentCard, handler service.Handler) error {
	store := stores.NewInMemoryTaskStore()
	defer store.Close()

	manager := service.NewHandlerTaskManager(store, handler)

	var options []service.AgentServerOption

	if secret := viper.GetString("auth.secret"); secret != "" {
		options = append(options, service.WithTokenVerifier(service.NewTokenVerifier(secret)))
	}

	srv := service.NewAgentServer(card, manager, options...)

	go registerWithCatalog(card)

	addr := fmt.Sprintf("%s:%d", hostFlag, portFlag)
	log.Info("agent listening", "agent", card.Name, "addr", addr)

	return srv.Listen(addr)
}

// registerWithCatalog retries a few times so agents can come up before the
// catalog does.
func registerWithCatalog(card a2a.AgentCard) {
	catalogURL := viper.GetString("endpoints.catalog")

	if catalogURL == "" {
		return
	}

	client := catalog.NewCatalogClient(catalogURL)

	for attempt := 0; attempt < 5; attempt++ {
		if attempt > 0 {
			time.Sleep(3 * time.Second)
		}

		if err := client.Register(&card); err != nil {
			log.Warn("catalog registration failed", "agent", card.Name, "attempt", attempt+1, "error", err)
			continue
		}

		log.Info("registered with catalog", "agent", card.Name, "catalog", catalogURL)
		return
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.AddCommand(agentCmd)
	serveCmd.AddCommand(orchestratorCmd)
	serveCmd.AddCommand(catalogCmd)

	serveCmd.PersistentFlags().IntVarP(&portFlag, "port", "p", 3210, "Port to serve on")
	serveCmd.PersistentFlags().StringVarP(&hostFlag, "host", "H", "0.0.0.0", "Host address to bind to")

	agentCmd.Flags().StringVarP(&agentNameFlag, "name", "n", "greeting", "Config key of the agent to serve")
}

var longServe = `
Serve a marketplace service.

Examples:
  # Serve the greeting agent on port 3001
  agora serve agent --name greeting --port 3001

  # Serve the orchestrator on port 3000
  agora serve orchestrator --port 3000

  # Serve the catalog on port 3210
  agora serve catalog --port 3210
`
