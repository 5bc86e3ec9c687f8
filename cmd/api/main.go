package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jira-chat-relay/config"
	_ "jira-chat-relay/docs" // Swagger docs
	"jira-chat-relay/internal/directory"
	"jira-chat-relay/internal/httpserver"
	"jira-chat-relay/internal/parser"
	"jira-chat-relay/internal/parser/mapping"
	"jira-chat-relay/internal/parser/mention"
	"jira-chat-relay/internal/parser/preprocess"
	"jira-chat-relay/internal/relay/usecase"
	"jira-chat-relay/internal/webhook"
	"jira-chat-relay/pkg/chat"
	pkgDirectory "jira-chat-relay/pkg/directory"
	"jira-chat-relay/pkg/log"
)

// @title       Jira Chat Relay API
// @description Relays tracker webhook events into chat room messages.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Jira Chat Relay...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Tracker URL: %s", cfg.Tracker.AppURL)

	// 3. User directory with lookup cache
	dirClient := pkgDirectory.NewClient(pkgDirectory.Config{
		URL:   cfg.Directory.URL,
		Token: cfg.Directory.AccessToken,
	})
	dir := directory.NewCached(dirClient, cfg.Directory.CacheSize, cfg.Directory.CacheTTL)

	// 4. Chat platform client
	chatClient := chat.NewClient(chat.Config{
		APIURL:       cfg.Chat.APIURL,
		RoomID:       cfg.Chat.RoomID,
		TokenURL:     cfg.Chat.TokenURL,
		ClientID:     cfg.Chat.ClientID,
		ClientSecret: cfg.Chat.ClientSecret,
		Scopes:       cfg.Chat.Scopes,
	})

	// 5. Parsing engine
	appURL := func() string { return cfg.Tracker.AppURL }
	pre := preprocess.New(appURL, dir, cfg.Tracker.EpicLinkField, logger)
	mentions := mention.NewResolver(dir, logger)
	builder := mapping.NewBuilder(dir, logger)

	legacyParsers := parser.NewLegacyParsers(pre, mentions, logger)

	loader := parser.NewLoader(cfg.Mappings.Dir, pre, builder, logger)
	metadataParsers := loader.Load(ctx)

	registry := parser.NewRegistry(legacyParsers, metadataParsers, logger)

	if cfg.Mappings.Watch {
		go func() {
			if watchErr := loader.Watch(ctx, registry); watchErr != nil {
				logger.Warnf(ctx, "Mapping watch stopped: %v", watchErr)
			}
		}()
	}

	// 6. Relay usecase
	relayUC := usecase.New(logger, registry, chatClient)

	// 7. Webhook delivery
	var webhookHandler httpserver.WebhookHandler
	if cfg.Webhook.Enabled {
		webhookHandler = webhook.NewHandler(relayUC, webhook.SecurityConfig{
			Secret:          cfg.Webhook.Secret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		}, logger)
	} else {
		logger.Warn(ctx, "Webhook ingestion disabled by config")
	}

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
