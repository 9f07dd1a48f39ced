// Package cli provides the command-line interface for the agent.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/craftally/agent/internal/agent"
	"github.com/craftally/agent/internal/config"
	"github.com/craftally/agent/internal/db"
	"github.com/craftally/agent/internal/embedding"
	"github.com/craftally/agent/internal/gateway"
	"github.com/craftally/agent/internal/intent"
	"github.com/craftally/agent/internal/llm"
	"github.com/craftally/agent/internal/memory"
	"github.com/craftally/agent/internal/models"
	"github.com/craftally/agent/internal/plangraph"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	role      string
	language  string
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Conversational business agent with plan reuse",
	Long: `A conversational agent for small business owners and their customers.
Owner sessions plan with a remote tool suite, remember past successful
plans, and learn from feedback. Customer sessions are support-only.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&role, "role", "owner", "session role: owner or customer")
	rootCmd.Flags().StringVar(&language, "language", "en-IN", "conversation language tag")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "tool server URL (overrides SAHAYAK_TOOL_SERVER_URL)")
}

func runChat() error {
	if role != "owner" && role != "customer" {
		return fmt.Errorf("invalid role %q: use owner or customer", role)
	}

	cfg := config.Load()
	if serverURL != "" {
		cfg.ToolServerURL = serverURL
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		cancel()
	}()

	model, err := llm.NewModel(cfg)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}

	embedder, err := embedding.NewOllamaClient(cfg.EmbeddingModel, 0)
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}

	memories, err := memory.NewChromemStore(cfg.MemoryDir, embedder, logger)
	if err != nil {
		return fmt.Errorf("open memory store: %w", err)
	}

	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect to plan graph: %w", err)
	}
	defer dbClient.Close(context.Background())

	if err := dbClient.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize plan graph schema: %w", err)
	}
	plans := plangraph.NewSurrealStore(dbClient, logger)

	fmt.Println(statusStyle.Render("Connecting to tool server at " + cfg.ToolServerURL + "..."))
	tools, err := gateway.Connect(ctx, cfg.ToolServerURL+"/sse", cfg.ToolTimeout, logger)
	if err != nil {
		return fmt.Errorf("connect to tool server: %w", err)
	}
	defer tools.Close()

	sessionRole := models.SessionOwner
	if role == "customer" {
		sessionRole = models.SessionCustomer
	}

	a := agent.New(
		model,
		intent.NewClassifier(model),
		memories,
		plans,
		tools,
		agent.NewInMemoryCheckpoints(),
		agent.Options{
			Role:         sessionRole,
			Language:     language,
			MaxToolLoops: cfg.MaxToolLoops,
			MemoryK:      cfg.MemoryRetrievalK,
			ModelTimeout: cfg.ModelTimeout,
			StoreTimeout: cfg.StoreTimeout,
		},
		logger,
	)

	return chatLoop(ctx, a, memories, sessionRole, language, cfg.HistoryLimit)
}
