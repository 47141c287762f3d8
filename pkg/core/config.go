package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config contains the complete configuration for a Jarvis relay.
//
// It includes settings for:
//   - LLM provider (chat replies and memory extraction)
//   - Store (memory facts and chat transcript)
//   - Speech synthesis
//   - Realtime server
//
// Example:
//
//	config := &core.Config{
//	    LLM: core.LLMConfig{
//	        Provider: "groq",
//	        APIKey:   "gsk_...",
//	        Model:    "meta-llama/llama-4-scout-17b-16e-instruct",
//	    },
//	    Store: core.StoreConfig{
//	        Provider: "sqlite",
//	        Path:     "./jarvis.db",
//	    },
//	}
type Config struct {
	// LLM contains LLM provider configuration.
	LLM LLMConfig `json:"llm"`

	// Store contains relational store configuration.
	Store StoreConfig `json:"store"`

	// TTS contains speech synthesis configuration.
	TTS TTSConfig `json:"tts"`

	// Server contains realtime gateway configuration.
	Server ServerConfig `json:"server"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`
}

// LLMConfig contains configuration for the LLM provider.
//
// Supported providers: groq, openai, deepseek. All of them speak the
// OpenAI chat completions protocol and differ only in base URL and default model.
type LLMConfig struct {
	// Provider is the LLM provider name (groq, openai, deepseek).
	Provider string `json:"provider"`

	// APIKey is the API key for the LLM provider.
	APIKey string `json:"api_key"`

	// Model is the model name to use.
	Model string `json:"model"`

	// BaseURL is the base URL for the API (optional, uses provider default if empty).
	BaseURL string `json:"base_url,omitempty"`
}

// StoreConfig contains configuration for the relational store.
//
// Supported providers: mysql, postgres, sqlite
type StoreConfig struct {
	// Provider is the store provider name (mysql, postgres, sqlite).
	Provider string `json:"provider"`

	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	DBName   string `json:"db_name,omitempty"`

	// TLS is the MySQL tls DSN parameter (true, false, skip-verify, preferred).
	TLS string `json:"tls,omitempty"`

	// SSLMode is the PostgreSQL sslmode.
	SSLMode string `json:"ssl_mode,omitempty"`

	// Path is the SQLite database file path.
	Path string `json:"path,omitempty"`

	// MemoryTable is the table holding memory facts.
	MemoryTable string `json:"memory_table,omitempty"`

	// ChatTable is the table holding the chat transcript.
	ChatTable string `json:"chat_table,omitempty"`
}

// TTSConfig contains configuration for speech synthesis.
//
// Supported providers: gtts, openai
type TTSConfig struct {
	// Provider is the synthesis provider name (gtts, openai).
	Provider string `json:"provider"`

	// APIKey is used by the openai provider.
	APIKey string `json:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (optional).
	BaseURL string `json:"base_url,omitempty"`

	// Model is the speech model for the openai provider (default tts-1).
	Model string `json:"model,omitempty"`

	// Voice is the voice used for the default locale.
	Voice string `json:"voice,omitempty"`

	// VoiceHindi is the voice used for Devanagari input.
	VoiceHindi string `json:"voice_hi,omitempty"`
}

// ServerConfig contains configuration for the realtime gateway.
type ServerConfig struct {
	// Addr is the listen address (default 0.0.0.0:5000).
	Addr string `json:"addr"`

	// HistoryLimit is the number of transcript rows sent on load_history (default 50).
	HistoryLimit int `json:"history_limit"`
}

const (
	defaultGroqBaseURL     = "https://api.groq.com/openai/v1"
	defaultGroqModel       = "meta-llama/llama-4-scout-17b-16e-instruct"
	defaultDeepSeekBaseURL = "https://api.deepseek.com"
	defaultDeepSeekModel   = "deepseek-chat"
	defaultOpenAIModel     = "gpt-4o-mini"

	// DefaultHistoryLimit is the number of transcript rows returned by load_history.
	DefaultHistoryLimit = 50
)

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - LLM_PROVIDER, LLM_API_KEY (or GROQ_API_KEY), LLM_MODEL, LLM_BASE_URL
//   - DATABASE_PROVIDER (mysql, postgres, sqlite)
//   - DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_TLS, POSTGRES_SSLMODE, SQLITE_PATH
//   - MEMORY_TABLE, CHAT_TABLE
//   - TTS_PROVIDER, TTS_API_KEY, TTS_BASE_URL, TTS_MODEL, TTS_VOICE, TTS_VOICE_HI
//   - SERVER_ADDR, HISTORY_LIMIT, LOG_LEVEL
//
// Returns a Config instance, or an error if a numeric variable cannot be parsed.
func LoadConfigFromEnv() (*Config, error) {
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	llmProvider := getEnvOrDefault("LLM_PROVIDER", "groq")
	llmAPIKey := os.Getenv("LLM_API_KEY")
	var llmBaseURL, defaultModel string

	switch llmProvider {
	case "groq":
		llmBaseURL = getEnvOrDefault("LLM_BASE_URL", defaultGroqBaseURL)
		defaultModel = defaultGroqModel
		if llmAPIKey == "" {
			llmAPIKey = os.Getenv("GROQ_API_KEY")
		}
	case "deepseek":
		llmBaseURL = getEnvOrDefault("LLM_BASE_URL", defaultDeepSeekBaseURL)
		defaultModel = defaultDeepSeekModel
	default:
		llmBaseURL = os.Getenv("LLM_BASE_URL")
		defaultModel = defaultOpenAIModel
	}

	storeProvider := getEnvOrDefault("DATABASE_PROVIDER", "mysql")
	defaultPort := "3306"
	if storeProvider == "postgres" {
		defaultPort = "5432"
	}
	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", defaultPort))
	if err != nil {
		return nil, NewError("LoadConfigFromEnv", fmt.Errorf("%w: DB_PORT: %v", ErrInvalidConfig, err))
	}

	historyLimit, err := strconv.Atoi(getEnvOrDefault("HISTORY_LIMIT", strconv.Itoa(DefaultHistoryLimit)))
	if err != nil {
		return nil, NewError("LoadConfigFromEnv", fmt.Errorf("%w: HISTORY_LIMIT: %v", ErrInvalidConfig, err))
	}

	ttsProvider := getEnvOrDefault("TTS_PROVIDER", "gtts")
	ttsAPIKey := os.Getenv("TTS_API_KEY")
	if ttsAPIKey == "" && ttsProvider == "openai" && llmProvider == "openai" {
		ttsAPIKey = llmAPIKey
	}

	config := &Config{
		LLM: LLMConfig{
			Provider: llmProvider,
			APIKey:   llmAPIKey,
			Model:    getEnvOrDefault("LLM_MODEL", defaultModel),
			BaseURL:  llmBaseURL,
		},
		Store: StoreConfig{
			Provider:    storeProvider,
			Host:        getEnvOrDefault("DB_HOST", "127.0.0.1"),
			Port:        port,
			User:        getEnvOrDefault("DB_USER", "root"),
			Password:    os.Getenv("DB_PASSWORD"),
			DBName:      getEnvOrDefault("DB_NAME", "jarvis"),
			TLS:         getEnvOrDefault("DB_TLS", "preferred"),
			SSLMode:     getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			Path:        getEnvOrDefault("SQLITE_PATH", "./jarvis.db"),
			MemoryTable: getEnvOrDefault("MEMORY_TABLE", "jarvis_memory"),
			ChatTable:   getEnvOrDefault("CHAT_TABLE", "jarvis_chat_history"),
		},
		TTS: TTSConfig{
			Provider:   ttsProvider,
			APIKey:     ttsAPIKey,
			BaseURL:    os.Getenv("TTS_BASE_URL"),
			Model:      os.Getenv("TTS_MODEL"),
			Voice:      os.Getenv("TTS_VOICE"),
			VoiceHindi: os.Getenv("TTS_VOICE_HI"),
		},
		Server: ServerConfig{
			Addr:         getEnvOrDefault("SERVER_ADDR", "0.0.0.0:5000"),
			HistoryLimit: historyLimit,
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

// LoadConfigFromEnvFile loads configuration from a specific .env file.
func LoadConfigFromEnvFile(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		return nil, NewError("LoadConfigFromEnvFile", err)
	}
	return LoadConfigFromEnv()
}

// LoadConfigFromJSON loads configuration from a JSON file.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError("LoadConfigFromJSON", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, NewError("LoadConfigFromJSON", err)
	}

	return &config, nil
}

// Validate validates the configuration.
//
// Checks that:
//   - the model credential is set
//   - the store provider is known and has its connection settings
//   - the tts provider is known
//   - the history limit is positive
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewError("Validate", fmt.Errorf("%w: missing LLM API key", ErrInvalidConfig))
	}
	if c.LLM.Model == "" {
		return NewError("Validate", fmt.Errorf("%w: missing LLM model", ErrInvalidConfig))
	}

	switch c.Store.Provider {
	case "mysql", "postgres":
		if c.Store.Host == "" || c.Store.Port <= 0 || c.Store.DBName == "" {
			return NewError("Validate", fmt.Errorf("%w: %s requires host, port and database name", ErrInvalidConfig, c.Store.Provider))
		}
	case "sqlite":
		if c.Store.Path == "" {
			return NewError("Validate", fmt.Errorf("%w: sqlite requires a path", ErrInvalidConfig))
		}
	default:
		return NewError("Validate", fmt.Errorf("%w: unknown store provider %q", ErrInvalidConfig, c.Store.Provider))
	}

	switch c.TTS.Provider {
	case "gtts":
	case "openai":
		if c.TTS.APIKey == "" {
			return NewError("Validate", fmt.Errorf("%w: openai tts requires an API key", ErrInvalidConfig))
		}
	default:
		return NewError("Validate", fmt.Errorf("%w: unknown tts provider %q", ErrInvalidConfig, c.TTS.Provider))
	}

	if c.Server.HistoryLimit <= 0 {
		return NewError("Validate", fmt.Errorf("%w: history limit must be positive", ErrInvalidConfig))
	}
	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
