package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/raulc0399/arcane-kitchen/internal/logging"
)

const (
	// DefaultEndpoint is the Arcane Kitchen sandbox AppSync endpoint
	DefaultEndpoint = "https://bzg3wm3cvrcnxnjdswzjxjju7y.appsync-api.us-east-1.amazonaws.com/graphql"
	DefaultRegion   = "us-east-1"
	DefaultProfile  = "brain"
	DefaultOutputs  = "amplify_outputs.json"

	// ReadTimeout bounds ordinary queries and mutations
	ReadTimeout = 10 * time.Second
	// MessageTimeout bounds the sousChef mutation, which waits on the model
	MessageTimeout = 30 * time.Second
)

// Endpoint sources
const (
	SourceLiteral = "literal"
	SourceAmplify = "amplify"
)

// AmplifyOutputs mirrors the parts of amplify_outputs.json the tools read
type AmplifyOutputs struct {
	Data struct {
		URL       string `json:"url"`
		AWSRegion string `json:"aws_region"`
	} `json:"data"`
	Auth struct {
		UserPoolID       string `json:"user_pool_id"`
		UserPoolClientID string `json:"user_pool_client_id"`
	} `json:"auth"`
}

// Config holds everything a tool needs to reach the API
type Config struct {
	Endpoint         string        `json:"endpoint"`
	Region           string        `json:"region"`
	Profile          string        `json:"profile"`
	UserPoolID       string        `json:"user_pool_id,omitempty"`
	UserPoolClientID string        `json:"user_pool_client_id,omitempty"`
	ReadTimeout      time.Duration `json:"read_timeout"`
	MessageTimeout   time.Duration `json:"message_timeout"`
	JournalDriver    string        `json:"journal_driver,omitempty"` // "", "postgres", "sqlite3"
	JournalDSN       string        `json:"journal_dsn,omitempty"`
}

// ScriptProfile describes how one tool resolves its endpoint
type ScriptProfile struct {
	Source      string `json:"source"` // "literal" or "amplify"
	Description string `json:"description"`
}

// DefaultConfig returns the literal endpoint configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:       DefaultEndpoint,
		Region:         DefaultRegion,
		Profile:        DefaultProfile,
		ReadTimeout:    ReadTimeout,
		MessageTimeout: MessageTimeout,
	}
}

// ScriptProfiles returns the endpoint source of every tool
func ScriptProfiles() map[string]ScriptProfile {
	return map[string]ScriptProfile{
		"create-recipes": {
			Source:      SourceLiteral,
			Description: "Create the sample recipes",
		},
		"test-recipes": {
			Source:      SourceLiteral,
			Description: "List recipes and fetch one by id",
		},
		"get-conversation": {
			Source:      SourceLiteral,
			Description: "List sous chef conversations and fetch one by id",
		},
		"debug-mutations": {
			Source:      SourceLiteral,
			Description: "Introspect the available mutations",
		},
		"conversation-flow": {
			Source:      SourceAmplify,
			Description: "Create a conversation, chat with the sous chef and read the history back",
		},
	}
}

// Load builds the configuration for the named tool
func Load(script string) (Config, error) {
	profile, ok := ScriptProfiles()[script]
	if !ok {
		return Config{}, fmt.Errorf("unknown script profile: %s", script)
	}

	cfg := DefaultConfig()

	if profile.Source == SourceAmplify {
		outputs, err := LoadAmplifyOutputs(GetEnv("AMPLIFY_OUTPUTS", DefaultOutputs))
		if err != nil {
			return Config{}, err
		}
		cfg.ApplyOutputs(outputs)
	}

	cfg.Endpoint = GetEnv("APPSYNC_URL", cfg.Endpoint)
	cfg.Region = GetEnv("APPSYNC_REGION", cfg.Region)
	cfg.Profile = GetEnv("AWS_PROFILE", cfg.Profile)
	cfg.JournalDriver = strings.ToLower(os.Getenv("JOURNAL_DRIVER"))
	cfg.JournalDSN = os.Getenv("JOURNAL_DSN")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyOutputs copies endpoint, region and user pool settings from the outputs file
func (c *Config) ApplyOutputs(outputs *AmplifyOutputs) {
	c.Endpoint = outputs.Data.URL
	c.Region = outputs.Data.AWSRegion
	c.UserPoolID = outputs.Auth.UserPoolID
	c.UserPoolClientID = outputs.Auth.UserPoolClientID
}

// Validate checks the fields every tool depends on
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return ValidationError{Field: "endpoint", Message: ErrMsgEmptyEndpoint}
	}
	if c.Region == "" {
		return ValidationError{Field: "region", Message: ErrMsgEmptyRegion}
	}
	switch c.JournalDriver {
	case "", "none", "postgres", "sqlite3":
	default:
		return ValidationError{Field: "journal_driver", Value: c.JournalDriver, Message: ErrMsgUnsupportedDriver}
	}
	if c.JournalDriver != "" && c.JournalDriver != "none" && c.JournalDSN == "" {
		return ValidationError{Field: "journal_dsn", Message: ErrMsgEmptyDSN}
	}
	return nil
}

// LoadAmplifyOutputs reads and decodes an amplify_outputs.json file
func LoadAmplifyOutputs(path string) (*AmplifyOutputs, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read amplify outputs %s: %w", path, err)
	}

	var outputs AmplifyOutputs
	if err := json.Unmarshal(raw, &outputs); err != nil {
		return nil, fmt.Errorf("failed to parse amplify outputs %s: %w", path, err)
	}

	if outputs.Data.URL == "" {
		return nil, ValidationError{Field: "data.url", Message: ErrMsgEmptyEndpoint}
	}
	if outputs.Data.AWSRegion == "" {
		return nil, ValidationError{Field: "data.aws_region", Message: ErrMsgEmptyRegion}
	}
	return &outputs, nil
}

// EnvFiles reports which env files LoadEnv read
type EnvFiles struct {
	Loaded []string
	Failed map[string]error
}

// Log reports the outcome of LoadEnv through logger
func (e EnvFiles) Log(logger logging.Logger) {
	for _, file := range sortedKeys(e.Failed) {
		logger.Warn("Failed to load env file", logging.F("file", file), logging.F("error", e.Failed[file]))
	}
	if len(e.Loaded) > 0 {
		logger.Debug("Loaded env files", logging.F("files", strings.Join(e.Loaded, ", ")))
	}
}

// LoadEnv loads .env and .env.local from dir when present; an empty dir means the
// working directory. Variables already set in the environment win.
func LoadEnv(dir string) EnvFiles {
	result := EnvFiles{Failed: make(map[string]error)}
	for _, name := range []string{".env", ".env.local"} {
		file := filepath.Join(dir, name)
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			result.Failed[file] = err
			continue
		}
		result.Loaded = append(result.Loaded, file)
	}
	return result
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ValidationError represents an invalid configuration value
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Standard error messages
const (
	ErrMsgEmptyEndpoint     = "endpoint cannot be empty"
	ErrMsgEmptyRegion       = "region cannot be empty"
	ErrMsgEmptyDSN          = "journal DSN is required when a journal driver is set"
	ErrMsgUnsupportedDriver = "unsupported journal driver"
)
