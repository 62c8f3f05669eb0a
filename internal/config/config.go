package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jaehyun-p/solar-chat/internal/domain"
)

// Provider names accepted by SOLARCHAT_PROVIDER.
const (
	ProviderSolar     = "solar"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

const (
	defaultSolarBase      = "https://api.upstage.ai/v1/solar"
	defaultSolarModel     = "solar-pro"
	defaultHFBase         = "https://api-inference.huggingface.co"
	defaultSentimentModel = "nlp04/korean_sentiment_analysis_kcelectra"
)

type Config struct {
	Port string

	Provider string // solar | gemini | anthropic | mock
	Model    string

	SolarAPIKey  string
	SolarAPIBase string

	GeminiAPIKey    string
	AnthropicAPIKey string

	LLMTimeout time.Duration

	StorageBackend string // "memory" or "firestore"
	GCPProjectID   string

	SentimentModel string
	HFAPIBase      string
	HFAPIToken     string
	SentimentOff   bool
}

// fileConfig is the optional YAML overlay (SOLARCHAT_CONFIG). Env vars
// win over file values; the file wins over built-in defaults.
type fileConfig struct {
	Port           string `yaml:"port"`
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	SolarAPIBase   string `yaml:"solar_api_base"`
	StorageBackend string `yaml:"storage_backend"`
	GCPProjectID   string `yaml:"gcp_project_id"`
	SentimentModel string `yaml:"sentiment_model"`
	HFAPIBase      string `yaml:"hf_api_base"`
	LLMTimeoutSec  int    `yaml:"llm_timeout_seconds"`
	SentimentOff   bool   `yaml:"sentiment_off"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

// Load builds the config from defaults, the optional YAML file and
// the environment, then validates it. Secrets only ever come from the
// environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           "8080",
		Provider:       ProviderSolar,
		Model:          defaultSolarModel,
		SolarAPIBase:   defaultSolarBase,
		LLMTimeout:     60 * time.Second,
		StorageBackend: "memory",
		SentimentModel: defaultSentimentModel,
		HFAPIBase:      defaultHFBase,
	}

	if path := os.Getenv("SOLARCHAT_CONFIG"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("SOLARCHAT_PORT", cfg.Port)
	cfg.Provider = getEnv("SOLARCHAT_PROVIDER", cfg.Provider)
	cfg.Model = getEnv("SOLARCHAT_MODEL", cfg.Model)

	cfg.SolarAPIKey = getEnv("SOLAR_API_KEY", cfg.SolarAPIKey)
	cfg.SolarAPIBase = getEnv("SOLAR_API_BASE", cfg.SolarAPIBase)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)

	if v := os.Getenv("SOLARCHAT_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: SOLARCHAT_LLM_TIMEOUT: %v", domain.ErrConfiguration, err)
		}
		cfg.LLMTimeout = d
	}

	cfg.StorageBackend = getEnv("SOLARCHAT_STORAGE", cfg.StorageBackend)
	cfg.GCPProjectID = getEnv("SOLARCHAT_GCP_PROJECT", cfg.GCPProjectID)

	cfg.SentimentModel = getEnv("SOLARCHAT_SENTIMENT_MODEL", cfg.SentimentModel)
	cfg.HFAPIBase = getEnv("SOLARCHAT_HF_BASE", cfg.HFAPIBase)
	cfg.HFAPIToken = getEnv("HF_API_TOKEN", cfg.HFAPIToken)
	cfg.SentimentOff = getBoolEnv("SOLARCHAT_SENTIMENT_OFF", cfg.SentimentOff)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", domain.ErrConfiguration, path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", domain.ErrConfiguration, path, err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.Provider != "" {
		cfg.Provider = fc.Provider
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.SolarAPIBase != "" {
		cfg.SolarAPIBase = fc.SolarAPIBase
	}
	if fc.StorageBackend != "" {
		cfg.StorageBackend = fc.StorageBackend
	}
	if fc.GCPProjectID != "" {
		cfg.GCPProjectID = fc.GCPProjectID
	}
	if fc.SentimentModel != "" {
		cfg.SentimentModel = fc.SentimentModel
	}
	if fc.HFAPIBase != "" {
		cfg.HFAPIBase = fc.HFAPIBase
	}
	if fc.LLMTimeoutSec > 0 {
		cfg.LLMTimeout = time.Duration(fc.LLMTimeoutSec) * time.Second
	}
	if fc.SentimentOff {
		cfg.SentimentOff = true
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderSolar:
		if c.SolarAPIKey == "" {
			return fmt.Errorf("%w: SOLAR_API_KEY must be set for the solar provider", domain.ErrConfiguration)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY must be set for the gemini provider", domain.ErrConfiguration)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("%w: ANTHROPIC_API_KEY must be set for the anthropic provider", domain.ErrConfiguration)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("%w: unknown provider %q", domain.ErrConfiguration, c.Provider)
	}

	if c.StorageBackend == "firestore" && c.GCPProjectID == "" {
		return fmt.Errorf("%w: SOLARCHAT_GCP_PROJECT must be set for the firestore backend", domain.ErrConfiguration)
	}
	return nil
}
