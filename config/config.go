package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	WebPort  int    `mapstructure:"WEB_PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DataDir       string `mapstructure:"DATA_DIR"`
	GraphFile     string `mapstructure:"GRAPH_FILE"`
	ImportCSVPath string `mapstructure:"IMPORT_CSV_PATH"`

	Neo4jURI      string `mapstructure:"NEO4J_URI"`
	Neo4jUser     string `mapstructure:"NEO4J_USER"`
	Neo4jPassword string `mapstructure:"NEO4J_PASSWORD"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`

	OpenAIAPIKey          string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL         string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel           string `mapstructure:"OPENAI_MODEL"`
	AzureOpenAIEndpoint   string `mapstructure:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIKey     string `mapstructure:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIAPIVersion string `mapstructure:"AZURE_OPENAI_API_VERSION"`
	AzureOpenAIDeployment string `mapstructure:"AZURE_OPENAI_DEPLOYMENT"`

	MaxRetries            int           `mapstructure:"MAX_RETRIES"`
	RetryDelaySeconds     time.Duration `mapstructure:"RETRY_DELAY_SECONDS"`
	LLMRequestTimeout     time.Duration `mapstructure:"LLM_REQUEST_TIMEOUT"`
	LLMBackoffMaxSeconds  time.Duration `mapstructure:"LLM_BACKOFF_MAX_SECONDS"`
	LLMBackoffJitterRatio float64       `mapstructure:"LLM_BACKOFF_JITTER_RATIO"`
	ExplanationCacheSize  int           `mapstructure:"EXPLANATION_CACHE_SIZE"`

	RateLimitRequestsPerMin int `mapstructure:"RATE_LIMIT_REQUESTS_PER_MIN"`
	RateLimitBurstSize      int `mapstructure:"RATE_LIMIT_BURST_SIZE"`
}

// GraphPath returns the snapshot location, resolved relative to the data directory.
func (c *Config) GraphPath() string {
	if filepath.IsAbs(c.GraphFile) {
		return c.GraphFile
	}
	return filepath.Join(c.DataDir, c.GraphFile)
}

// UseAzure reports whether the LLM client should target an Azure OpenAI deployment.
func (c *Config) UseAzure() bool {
	return c.AzureOpenAIEndpoint != "" && c.AzureOpenAIDeployment != ""
}

func Load(logger *zap.Logger) *Config {
	// .env is optional; real environment variables still win
	if err := godotenv.Load(); err != nil && logger != nil && !os.IsNotExist(err) {
		logger.Debug("Could not load .env file", zap.Error(err))
	}

	var config Config
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")        // For running locally
	v.AddConfigPath("../")      // For running from docker subdir
	v.AddConfigPath("./config") // Common config folder
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	normalize(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("WEB_PORT", 3001)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("GRAPH_FILE", "vocabulary_graph.json")
	v.SetDefault("IMPORT_CSV_PATH", "./data/master_vocabulary_table9000.csv")
	v.SetDefault("NEO4J_URI", "bolt://localhost:7687")
	v.SetDefault("NEO4J_USER", "neo4j")
	v.SetDefault("NEO4J_PASSWORD", "password")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("AZURE_OPENAI_ENDPOINT", "")
	v.SetDefault("AZURE_OPENAI_API_KEY", "")
	v.SetDefault("AZURE_OPENAI_API_VERSION", "2024-08-01-preview")
	v.SetDefault("AZURE_OPENAI_DEPLOYMENT", "")
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("RETRY_DELAY_SECONDS", 2)
	v.SetDefault("LLM_REQUEST_TIMEOUT", 60)
	v.SetDefault("LLM_BACKOFF_MAX_SECONDS", 30)
	v.SetDefault("LLM_BACKOFF_JITTER_RATIO", 0.1)
	v.SetDefault("EXPLANATION_CACHE_SIZE", 256)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_MIN", 10)
	v.SetDefault("RATE_LIMIT_BURST_SIZE", 5)
}

// normalize converts plain seconds into durations and clamps values the rest
// of the service assumes are positive.
func normalize(config *Config) {
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
	config.Neo4jURI = strings.TrimSpace(config.Neo4jURI)
	config.DatabaseURL = strings.TrimSpace(config.DatabaseURL)

	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	if config.ExplanationCacheSize < 1 {
		config.ExplanationCacheSize = 1
	}
	if config.RateLimitBurstSize < 1 {
		config.RateLimitBurstSize = 1
	}

	// Convert seconds to proper time.Duration
	config.RetryDelaySeconds = config.RetryDelaySeconds * time.Second
	config.LLMRequestTimeout = config.LLMRequestTimeout * time.Second
	config.LLMBackoffMaxSeconds = config.LLMBackoffMaxSeconds * time.Second
}
