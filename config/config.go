package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Relay specifics
	Tracker   TrackerConfig
	Chat      ChatConfig
	Directory DirectoryConfig
	Mappings  MappingsConfig

	// Webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TrackerConfig struct {
	// AppURL is the tracker base URL used as the last-resort seed for
	// permalinks and icon links, e.g. https://tracker.example.com
	AppURL        string
	EpicLinkField string
}

type ChatConfig struct {
	APIURL       string
	RoomID       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

type DirectoryConfig struct {
	URL         string
	AccessToken string
	CacheSize   int
	CacheTTL    time.Duration
}

type MappingsConfig struct {
	Dir   string
	Watch bool
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Tracker
	cfg.Tracker.AppURL = viper.GetString("tracker.app_url")
	cfg.Tracker.EpicLinkField = viper.GetString("tracker.epic_link_field")
	if appURL := viper.GetString("tracker_app_url"); appURL != "" {
		cfg.Tracker.AppURL = appURL
	}
	cfg.Tracker.AppURL = strings.TrimRight(cfg.Tracker.AppURL, "/")

	// Chat platform
	cfg.Chat.APIURL = viper.GetString("chat.api_url")
	cfg.Chat.RoomID = viper.GetString("chat.room_id")
	cfg.Chat.TokenURL = viper.GetString("chat.token_url")
	cfg.Chat.ClientID = viper.GetString("chat.client_id")
	cfg.Chat.ClientSecret = viper.GetString("chat.client_secret")
	if chatSecret := viper.GetString("chat_client_secret"); chatSecret != "" {
		cfg.Chat.ClientSecret = chatSecret
	}
	cfg.Chat.Scopes = splitList(viper.GetString("chat.scopes"))

	// User directory
	cfg.Directory.URL = viper.GetString("directory.url")
	cfg.Directory.AccessToken = viper.GetString("directory.access_token")
	if dirToken := viper.GetString("directory_access_token"); dirToken != "" {
		cfg.Directory.AccessToken = dirToken
	}
	cfg.Directory.CacheSize = viper.GetInt("directory.cache_size")
	cfg.Directory.CacheTTL = viper.GetDuration("directory.cache_ttl")

	// Mapping descriptors
	cfg.Mappings.Dir = viper.GetString("mappings.dir")
	cfg.Mappings.Watch = viper.GetBool("mappings.watch")

	// Webhooks
	cfg.Webhook.Enabled = viper.GetBool("webhook.enabled")
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.AllowedIPs = splitList(viper.GetString("webhook.allowed_ips"))

	if cfg.Chat.APIURL == "" {
		return nil, fmt.Errorf("chat.api_url is required")
	}
	if cfg.Chat.RoomID == "" {
		return nil, fmt.Errorf("chat.room_id is required")
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("tracker.epic_link_field", "Epic Link")
	viper.SetDefault("directory.cache_size", 1024)
	viper.SetDefault("directory.cache_ttl", "10m")
	viper.SetDefault("mappings.dir", "./mappings")
	viper.SetDefault("mappings.watch", true)
	viper.SetDefault("webhook.rate_limit_per_min", 60)
	viper.SetDefault("webhook.enabled", true)
}

// splitList splits comma-separated values since viper might not parse arrays
// seamlessly from env.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
