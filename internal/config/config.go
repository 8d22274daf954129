package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// OMDb metadata API
	OMDbAPIKey string
	OMDbURL    string

	// OpenAI recommendation API
	OpenAIAPIKey  string
	OpenAIURL     string
	OpenAIModel   string
	OpenAITimeout int // Seconds before a recommendation call is abandoned (default: 30)

	// Lookup behaviour
	LookupTimeout  int // Seconds before a metadata lookup is abandoned (default: 15)
	LookupCacheTTL int // Minutes a metadata response stays cached (default: 60)

	// Server
	ServerPort    string
	SessionSecret string

	// Paths
	DatabaseFile string // $CONFIG_DIR/movielib.db

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("OMDB_URL", "https://www.omdbapi.com/")
	viper.SetDefault("OPENAI_URL", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("OPENAI_TIMEOUT_SECONDS", 30)
	viper.SetDefault("LOOKUP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("LOOKUP_CACHE_TTL_MINUTES", 60)
	viper.SetDefault("SERVER_PORT", "5002")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "movielib")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// OMDb
		OMDbAPIKey: viper.GetString("OMDB_API_KEY"),
		OMDbURL:    viper.GetString("OMDB_URL"),

		// OpenAI
		OpenAIAPIKey:  viper.GetString("OPENAI_API_KEY"),
		OpenAIURL:     viper.GetString("OPENAI_URL"),
		OpenAIModel:   viper.GetString("OPENAI_MODEL"),
		OpenAITimeout: viper.GetInt("OPENAI_TIMEOUT_SECONDS"),

		// Lookup
		LookupTimeout:  viper.GetInt("LOOKUP_TIMEOUT_SECONDS"),
		LookupCacheTTL: viper.GetInt("LOOKUP_CACHE_TTL_MINUTES"),

		// Server
		ServerPort:    viper.GetString("SERVER_PORT"),
		SessionSecret: viper.GetString("SESSION_SECRET"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "movielib.db"),

		// Logging
		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	// Validate required fields
	if config.OMDbAPIKey == "" {
		return nil, fmt.Errorf("OMDB_API_KEY is required")
	}
	if config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if config.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return config, nil
}
