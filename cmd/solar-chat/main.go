package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaehyun-p/solar-chat/internal/adapters/hf"
	httpadapter "github.com/jaehyun-p/solar-chat/internal/adapters/http"
	"github.com/jaehyun-p/solar-chat/internal/adapters/llm"
	firestorestore "github.com/jaehyun-p/solar-chat/internal/adapters/storage/firestore"
	memstore "github.com/jaehyun-p/solar-chat/internal/adapters/storage/memory"
	"github.com/jaehyun-p/solar-chat/internal/app/chat"
	"github.com/jaehyun-p/solar-chat/internal/app/sentiment"
	"github.com/jaehyun-p/solar-chat/internal/config"
	"github.com/jaehyun-p/solar-chat/internal/domain"
	"github.com/jaehyun-p/solar-chat/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "solar-chat",
		Short:         "Conversational chatbot backed by the Upstage Solar LLM, with sentiment analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newChatCmd())
	root.AddCommand(newClassifyCmd())

	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			app, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}

			handler := httpadapter.NewServer(app.chat, app.classifier)

			log := observability.Logger()
			addr := ":" + cfg.Port
			log.Info("solar-chat API listening", "addr", addr, "provider", cfg.Provider)

			return http.ListenAndServe(addr, handler)
		},
	}
}

// app bundles the wired services shared by the subcommands.
type app struct {
	chat       *chat.Service
	classifier domain.SentimentClassifier
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := observability.Logger()

	model, err := buildModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		sessionStore domain.SessionStore
		messageStore domain.MessageStore
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		// one store, implements both interfaces
		sessionStore = store
		messageStore = store
	default:
		log.Info("using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		messageStore = memstore.NewMessageStore()
	}

	var classifier domain.SentimentClassifier
	if !cfg.SentimentOff {
		pipeline := hf.New(cfg.SentimentModel,
			hf.WithBaseURL(cfg.HFAPIBase),
			hf.WithToken(cfg.HFAPIToken),
		)
		classifier = sentiment.NewService(pipeline)
		log.Info("sentiment classifier enabled", "model", cfg.SentimentModel)
	}

	return &app{
		chat:       chat.NewService(model, sessionStore, messageStore, classifier),
		classifier: classifier,
	}, nil
}

func buildModel(ctx context.Context, cfg *config.Config) (domain.ChatModel, error) {
	log := observability.Logger()

	switch cfg.Provider {
	case config.ProviderMock:
		log.Info("using mock chat model")
		return llm.NewMockLLM(), nil
	case config.ProviderGemini:
		log.Info("using gemini chat model", "model", cfg.Model)
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	case config.ProviderAnthropic:
		log.Info("using anthropic chat model", "model", cfg.Model)
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model)
	default:
		log.Info("using solar chat model", "model", cfg.Model)
		return llm.NewSolarClient(cfg.SolarAPIKey,
			llm.WithSolarBaseURL(cfg.SolarAPIBase),
			llm.WithSolarModel(cfg.Model),
			llm.WithSolarHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
		)
	}
}
