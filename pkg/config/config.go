// Package config holds the runtime configuration for the analyzer: model
// endpoint and id, retrieval service address, and analysis bounds. Values
// come from defaults, then an optional YAML file, then the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Endpoint is the OpenAI-compatible chat-completions URL.
	Endpoint string `yaml:"endpoint"`
	// Model is the model id sent with each request.
	Model string `yaml:"model"`
	// APIKey is only read from the environment, never from the file.
	APIKey string `yaml:"-"`
	// RetrievalURL is the documentation-search service's search endpoint.
	RetrievalURL string `yaml:"retrieval_url"`
	// MaxDocs bounds how many retrieval hits go into the prompt.
	MaxDocs int `yaml:"max_docs"`
	// MaxTokens caps the model's reply length.
	MaxTokens int `yaml:"max_tokens"`
	// Temperature stays low: precision over creativity.
	Temperature float64 `yaml:"temperature"`
	// TimeoutSeconds covers one model call end to end.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func Default() Config {
	return Config{
		Endpoint:       "https://router.huggingface.co/v1/chat/completions",
		Model:          "Qwen/Qwen2.5-72B-Instruct",
		RetrievalURL:   "http://localhost:8003/search",
		MaxDocs:        5,
		MaxTokens:      1024,
		Temperature:    0.1,
		TimeoutSeconds: 120,
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// $BUGHUNTER_CONFIG when path is empty; no file at all is fine), and
// finally environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BUGHUNTER_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("HF_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("HF_MODEL_ID"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("RETRIEVAL_URL"); v != "" {
		cfg.RetrievalURL = v
	}
	return cfg, nil
}
