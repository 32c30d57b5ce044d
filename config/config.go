package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is read from JSON or, for .yaml/.yml files, YAML.
type Config struct {
	LLM        *LLMConfig `json:"llm,omitempty" yaml:"llm,omitempty"`
	ServerAddr string     `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`

	// StampNestedIDs replaces model-chosen element ids in /document and /elements
	// results with content-derived ones.
	StampNestedIDs bool `json:"stamp_nested_ids,omitempty" yaml:"stamp_nested_ids,omitempty"`

	// RequestTimeoutSeconds bounds each generation request; 0 means no timeout.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`
}

// LLMConfig selects the completion and image providers.
type LLMConfig struct {
	Provider      string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model         string `json:"model,omitempty" yaml:"model,omitempty"`
	ImageProvider string `json:"image_provider,omitempty" yaml:"image_provider,omitempty"`
	ImageModel    string `json:"image_model,omitempty" yaml:"image_model,omitempty"`
	APIKey        string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv     string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL       string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// OpenAIKeyEnv holds the image API key when the completion provider is not OpenAI.
const OpenAIKeyEnv = "OPENAI_API_KEY"

var defaultKeyEnv = map[string]string{
	"openai":    OpenAIKeyEnv,
	"deepseek":  "DEEPSEEK_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

var defaultModel = map[string]string{
	"openai":    "gpt-4o-mini",
	"deepseek":  "deepseek-chat",
	"anthropic": "claude-sonnet-4-5",
	"mock":      "mock",
}

// Default is an OpenAI setup reading its key from OPENAI_API_KEY.
func Default() Config {
	var cfg Config
	cfg.fillDefaults()
	return cfg
}

// Load reads path and fills unset fields with provider-specific defaults.
// An empty path yields Default().
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &cfg)
		default:
			err = json.Unmarshal(data, &cfg)
		}
		if err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.fillDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) fillDefaults() {
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel[c.LLM.Provider]
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = defaultKeyEnv[c.LLM.Provider]
	}
	if c.LLM.ImageProvider == "" {
		if c.LLM.Provider == "mock" {
			c.LLM.ImageProvider = "mock"
		} else {
			c.LLM.ImageProvider = "openai"
		}
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
}

func (c Config) Validate() error {
	if c.LLM == nil || c.LLM.Provider == "" {
		return errors.New("llm config missing; please set llm.provider/model/api_key_env in config")
	}
	if _, ok := defaultModel[c.LLM.Provider]; !ok {
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	switch c.LLM.ImageProvider {
	case "openai", "mock", "none":
	default:
		return fmt.Errorf("image provider %s not supported", c.LLM.ImageProvider)
	}
	if c.RequestTimeoutSeconds < 0 {
		return errors.New("request_timeout_seconds must not be negative")
	}
	return nil
}

// ResolveAPIKey prefers the inline key and falls back to the configured environment variable.
func (l LLMConfig) ResolveAPIKey() string {
	if l.APIKey != "" {
		return l.APIKey
	}
	if l.APIKeyEnv != "" {
		return strings.TrimSpace(os.Getenv(l.APIKeyEnv))
	}
	return ""
}

// OpenAIKey is the credential for the image API, which is always OpenAI.
func (l LLMConfig) OpenAIKey() string {
	if l.Provider == "openai" {
		return l.ResolveAPIKey()
	}
	return strings.TrimSpace(os.Getenv(OpenAIKeyEnv))
}
