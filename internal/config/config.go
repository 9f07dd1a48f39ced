// Package config loads configuration from environment variables and
// sets up logging.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLMProvider selects the reasoning-model backend.
type LLMProvider string

const (
	ProviderOllama    LLMProvider = "ollama"
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection (plan graph)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Memory store
	MemoryDir string

	// Ollama embedding
	OllamaHost     string
	EmbeddingModel string

	// Reasoning model
	LLMProvider     LLMProvider
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Tool server
	ToolServerURL  string
	ToolServerAddr string

	// Timeouts. Every model, store, and tool call crosses a process
	// boundary and must not run unbounded.
	ModelTimeout time.Duration
	ToolTimeout  time.Duration
	StoreTimeout time.Duration

	// Planning policy
	MemoryRetrievalK int
	HistoryLimit     int
	MaxToolLoops     int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "sahayak"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "plans"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		MemoryDir: getEnv("SAHAYAK_MEMORY_DIR", "./memory_db"),

		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		EmbeddingModel: getEnv("SAHAYAK_EMBEDDING_MODEL", "all-minilm:l6-v2"),

		LLMProvider:     LLMProvider(getEnv("SAHAYAK_LLM_PROVIDER", string(ProviderOllama))),
		LLMModel:        getEnv("SAHAYAK_LLM_MODEL", "llama3.1"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		ToolServerURL:  getEnv("SAHAYAK_TOOL_SERVER_URL", "http://localhost:8080"),
		ToolServerAddr: getEnv("SAHAYAK_TOOL_SERVER_ADDR", ":8080"),

		ModelTimeout: getDuration("SAHAYAK_MODEL_TIMEOUT", 2*time.Minute),
		ToolTimeout:  getDuration("SAHAYAK_TOOL_TIMEOUT", 5*time.Minute),
		StoreTimeout: getDuration("SAHAYAK_STORE_TIMEOUT", 15*time.Second),

		MemoryRetrievalK: getInt("SAHAYAK_MEMORY_K", 5),
		HistoryLimit:     getInt("SAHAYAK_HISTORY_LIMIT", 25),
		MaxToolLoops:     getInt("SAHAYAK_MAX_TOOL_LOOPS", 10),

		LogFile:  getEnv("SAHAYAK_LOG_FILE", "/tmp/sahayak.log"),
		LogLevel: parseLogLevel(getEnv("SAHAYAK_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
