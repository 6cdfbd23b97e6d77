// Package config loads and validates the server configuration.
//
// Configuration is environment-first: the two Arize identity values are
// read from ARIZE_API_KEY and ARIZE_SPACE_ID (a .env file is honored
// when present). An optional YAML file can override endpoints and
// completion defaults; string values in it support ${VAR} and
// ${VAR:-default} expansion.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRESTBaseURL is the Arize AX REST API v2 endpoint.
	DefaultRESTBaseURL = "https://api.arize.com/v2"
	// DefaultGraphQLEndpoint is the Arize AX GraphQL endpoint.
	DefaultGraphQLEndpoint = "https://app.arize.com/graphql"

	// APIKeyPrefix is the fixed prefix every Arize API key carries.
	APIKeyPrefix = "ak-"

	envAPIKey           = "ARIZE_API_KEY"
	envSpaceID          = "ARIZE_SPACE_ID"
	envCompletionAPIKey = "COMPLETION_API_KEY"
	envRESTBaseURL      = "ARIZE_REST_URL"
	envGraphQLEndpoint  = "ARIZE_GRAPHQL_URL"
)

// Config holds everything the server needs to talk to Arize AX and,
// optionally, to a completion endpoint for experiments.
type Config struct {
	APIKey  string `yaml:"api_key"`
	SpaceID string `yaml:"space_id"`

	RESTBaseURL     string `yaml:"rest_base_url"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`

	// CompletionAPIKey is the environment-level default credential for
	// run_experiment. An explicit tool parameter takes priority.
	CompletionAPIKey string `yaml:"completion_api_key"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`
	// MaxRetries bounds HTTP retries for upstream calls.
	MaxRetries int `yaml:"max_retries"`
}

// Load builds a Config from the environment plus an optional YAML
// overrides file. It fails fast on missing or malformed identity values.
func Load(path string) (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:           os.Getenv(envAPIKey),
		SpaceID:          os.Getenv(envSpaceID),
		CompletionAPIKey: os.Getenv(envCompletionAPIKey),
		RESTBaseURL:      os.Getenv(envRESTBaseURL),
		GraphQLEndpoint:  os.Getenv(envGraphQLEndpoint),
		Timeout:          30,
		MaxRetries:       3,
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.RESTBaseURL == "" {
		cfg.RESTBaseURL = DefaultRESTBaseURL
	}
	if cfg.GraphQLEndpoint == "" {
		cfg.GraphQLEndpoint = DefaultGraphQLEndpoint
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var overrides Config
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &overrides); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if overrides.APIKey != "" {
		c.APIKey = overrides.APIKey
	}
	if overrides.SpaceID != "" {
		c.SpaceID = overrides.SpaceID
	}
	if overrides.CompletionAPIKey != "" {
		c.CompletionAPIKey = overrides.CompletionAPIKey
	}
	if overrides.RESTBaseURL != "" {
		c.RESTBaseURL = overrides.RESTBaseURL
	}
	if overrides.GraphQLEndpoint != "" {
		c.GraphQLEndpoint = overrides.GraphQLEndpoint
	}
	if overrides.Timeout > 0 {
		c.Timeout = overrides.Timeout
	}
	if overrides.MaxRetries > 0 {
		c.MaxRetries = overrides.MaxRetries
	}
	return nil
}

// Validate checks the identity value formats. The API key carries a
// fixed literal prefix and the space ID is a base64-encoded node id.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s is not set", envAPIKey)
	}
	if !strings.HasPrefix(c.APIKey, APIKeyPrefix) {
		return fmt.Errorf("%s must start with %q", envAPIKey, APIKeyPrefix)
	}
	if c.SpaceID == "" {
		return fmt.Errorf("%s is not set", envSpaceID)
	}
	if _, err := base64.StdEncoding.DecodeString(c.SpaceID); err != nil {
		return fmt.Errorf("%s is not valid base64: %w", envSpaceID, err)
	}
	return nil
}
