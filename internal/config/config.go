// Package config assembles groundlab runtime configuration from the process
// environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// Environment variables recognized by Load.
const (
	EnvEndpoint         = "GROUNDLAB_ENDPOINT"
	EnvAPIKey           = "GROUNDLAB_API_KEY"
	EnvAPIVersion       = "GROUNDLAB_API_VERSION"
	EnvSearchConnection = "GROUNDLAB_SEARCH_CONNECTION_ID"
	EnvModel            = "GROUNDLAB_MODEL"
	EnvAgentName        = "GROUNDLAB_AGENT_NAME"
	EnvPromptsDir       = "GROUNDLAB_PROMPTS_DIR"
	EnvResultsDir       = "GROUNDLAB_RESULTS_DIR"
	EnvHistoryDB        = "GROUNDLAB_HISTORY_DB"
	EnvPollInterval     = "GROUNDLAB_POLL_INTERVAL"
	EnvRunTimeout       = "GROUNDLAB_RUN_TIMEOUT"
	EnvLogLevel         = "GROUNDLAB_LOG_LEVEL"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultAPIVersion   = "2024-05-01-preview"
	DefaultModel        = "gpt-4o"
	DefaultAgentName    = "grounding-experiment-agent"
	DefaultPromptsDir   = "prompts"
	DefaultResultsDir   = "results"
	DefaultPollInterval = 1 * time.Second
	DefaultRunTimeout   = 2 * time.Minute
)

// Config holds everything the CLI needs to reach the agent service and run
// grounding experiments.
type Config struct {
	Endpoint           string
	APIKey             string
	APIVersion         string
	SearchConnectionID string
	Model              string
	AgentName          string
	PromptsDir         string
	ResultsDir         string
	HistoryDB          string
	PollInterval       time.Duration
	RunTimeout         time.Duration
	LogLevel           string
}

// Load reads .env from the working directory (when present) and assembles a
// Config from the environment. Values already set in the process environment
// take precedence over .env entries.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom behaves like Load but reads the named env file. A missing file is
// not an error; a malformed one is.
func LoadFrom(envPath string) (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to parse env file %s: %w", envPath, err)
		}
	}

	cfg := &Config{
		Endpoint:           os.Getenv(EnvEndpoint),
		APIKey:             os.Getenv(EnvAPIKey),
		APIVersion:         getEnvDefault(EnvAPIVersion, DefaultAPIVersion),
		SearchConnectionID: os.Getenv(EnvSearchConnection),
		Model:              getEnvDefault(EnvModel, DefaultModel),
		AgentName:          getEnvDefault(EnvAgentName, DefaultAgentName),
		PromptsDir:         getEnvDefault(EnvPromptsDir, DefaultPromptsDir),
		ResultsDir:         getEnvDefault(EnvResultsDir, DefaultResultsDir),
		HistoryDB:          os.Getenv(EnvHistoryDB),
		LogLevel:           os.Getenv(EnvLogLevel),
	}

	var err error
	cfg.PollInterval, err = getDurationDefault(EnvPollInterval, DefaultPollInterval)
	if err != nil {
		return nil, err
	}
	cfg.RunTimeout, err = getDurationDefault(EnvRunTimeout, DefaultRunTimeout)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the fields required before any network call is made.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%s not set: the agent service endpoint is required", EnvEndpoint)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run timeout must be positive, got %s", c.RunTimeout)
	}
	return nil
}

// HasSearchConnection reports whether a search connection ID was configured.
// Without one the experiment still runs, just against an agent with no
// search tool attached.
func (c *Config) HasSearchConnection() bool {
	return c.SearchConnectionID != ""
}

// ClientOptions builds the request options for the agent service client. An
// explicit API key wins; otherwise the ambient Azure credential chain is
// used (environment, workload identity, managed identity, developer CLI).
func (c *Config) ClientOptions() ([]option.RequestOption, error) {
	opts := []option.RequestOption{
		azure.WithEndpoint(c.Endpoint, c.APIVersion),
	}

	if c.APIKey != "" {
		opts = append(opts, azure.WithAPIKey(c.APIKey))
		return opts, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ambient credential: %w", err)
	}
	opts = append(opts, azure.WithTokenCredential(cred))
	return opts, nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
