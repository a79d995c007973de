package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGraphPath(t *testing.T) {
	cfg := &Config{DataDir: "./data", GraphFile: "vocabulary_graph.json"}
	assert.Equal(t, filepath.Join("data", "vocabulary_graph.json"), cfg.GraphPath())

	abs := filepath.Join(t.TempDir(), "graph.json")
	cfg.GraphFile = abs
	assert.Equal(t, abs, cfg.GraphPath())
}

func TestUseAzure(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.UseAzure())

	cfg.AzureOpenAIEndpoint = "https://example.openai.azure.com"
	assert.False(t, cfg.UseAzure(), "deployment is required too")

	cfg.AzureOpenAIDeployment = "gpt-4o"
	assert.True(t, cfg.UseAzure())
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		LogLevel:             " DEBUG ",
		RetryDelaySeconds:    2,
		LLMRequestTimeout:    60,
		LLMBackoffMaxSeconds: 30,
	}
	normalize(cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.RetryDelaySeconds)
	assert.Equal(t, time.Minute, cfg.LLMRequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.LLMBackoffMaxSeconds)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 1, cfg.ExplanationCacheSize)
	assert.Equal(t, 1, cfg.RateLimitBurstSize)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("WEB_PORT", "8088")
	t.Setenv("GRAPH_FILE", "snapshot.json")
	t.Setenv("MAX_RETRIES", "4")

	cfg := Load(zap.NewNop())

	assert.Equal(t, 8088, cfg.WebPort)
	assert.Equal(t, "snapshot.json", cfg.GraphFile)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 2*time.Second, cfg.RetryDelaySeconds)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"warning": "warn",
		"ERROR":   "error",
		"bogus":   "info",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in).String())
		})
	}
}
