// Package config loads the service configuration from a TOML file and
// applies defaults. The resulting Config is read-only after Load and is
// passed explicitly to every component that needs it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultPGPort          = 5432
	DefaultPGUser          = "postgres"
	DefaultPGDatabase      = "docwise"
	DefaultPGSSLMode       = "disable"
	DefaultModelName       = "gpt-5.1"
	DefaultSLMModelName    = "gpt-5-mini"
	DefaultMaxOutputTokens = 128000
	DefaultPollInterval    = time.Second
	DefaultLoginEndpoint   = "https://login.microsoftonline.com"
	DefaultConnectorScope  = "https://api.botframework.com/.default"
	DefaultOpenIDMetadata  = "https://login.botframework.com/v1/.well-known/openidconfiguration"
	DefaultTokenIssuer     = "https://api.botframework.com"
	DefaultAnalysisModel   = "prebuilt-layout"
	DefaultAnalysisVersion = "2024-11-30"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	DocIntel DocIntelConfig `toml:"document_intelligence"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Postgres PostgresConfig `toml:"postgres"`
	Copilot  CopilotConfig  `toml:"copilot"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AuthConfig holds the single-tenant bot identity used for both inbound
// token validation and outbound connector authentication.
type AuthConfig struct {
	TenantID       string `toml:"tenant_id" validate:"required"`
	ClientID       string `toml:"client_id" validate:"required"`
	ClientSecret   string `toml:"client_secret" validate:"required"`
	LoginEndpoint  string `toml:"login_endpoint"`
	ConnectorScope string `toml:"connector_scope"`
	OpenIDMetadata string `toml:"openid_metadata"`
	TokenIssuer    string `toml:"token_issuer"`
}

// TokenURL returns the OAuth2 client-credentials token endpoint for the
// configured tenant.
func (c AuthConfig) TokenURL() string {
	endpoint := c.LoginEndpoint
	if endpoint == "" {
		endpoint = DefaultLoginEndpoint
	}
	return endpoint + "/" + c.TenantID + "/oauth2/v2.0/token"
}

// Duration decodes TOML strings like "5s" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type DocIntelConfig struct {
	Endpoint     string   `toml:"endpoint" validate:"required,url"`
	APIKey       string   `toml:"api_key" validate:"required"`
	ModelID      string   `toml:"model_id"`
	APIVersion   string   `toml:"api_version"`
	PollInterval Duration `toml:"poll_interval"`
}

type OpenAIConfig struct {
	Endpoint        string `toml:"endpoint" validate:"required,url"`
	APIKey          string `toml:"api_key" validate:"required"`
	ModelName       string `toml:"model_name"`
	SLMModelName    string `toml:"slm_model_name"`
	MaxOutputTokens int64  `toml:"max_output_tokens"`
}

// BaseURL returns the OpenAI-compatible v1 base URL for the endpoint.
func (c OpenAIConfig) BaseURL() string {
	return c.Endpoint + "openai/v1/"
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// Enabled reports whether a Postgres-backed state store is configured.
// When false the service falls back to the in-memory store.
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

// DSN returns the pgx connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// CopilotConfig carries the instruction text blocks and document policy.
type CopilotConfig struct {
	DocumentInstructions         string   `toml:"document_instructions"`
	SuggestedActionsInstructions string   `toml:"suggested_actions_instructions"`
	TableSummaryInstructions     string   `toml:"table_summary_instructions"`
	SummarizeTables              bool     `toml:"summarize_tables"`
	SupportedFileTypes           []string `toml:"supported_file_types"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			LoginEndpoint:  DefaultLoginEndpoint,
			ConnectorScope: DefaultConnectorScope,
			OpenIDMetadata: DefaultOpenIDMetadata,
			TokenIssuer:    DefaultTokenIssuer,
		},
		DocIntel: DocIntelConfig{
			ModelID:      DefaultAnalysisModel,
			APIVersion:   DefaultAnalysisVersion,
			PollInterval: Duration{Duration: DefaultPollInterval},
		},
		OpenAI: OpenAIConfig{
			ModelName:       DefaultModelName,
			SLMModelName:    DefaultSLMModelName,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
		Postgres: PostgresConfig{
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Copilot: CopilotConfig{
			DocumentInstructions:         DefaultDocumentInstructions,
			SuggestedActionsInstructions: DefaultSuggestedActionsInstructions,
			TableSummaryInstructions:     DefaultTableSummaryInstructions,
			SupportedFileTypes:           []string{"pdf"},
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that the externally required settings are present.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c.Auth); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := v.Struct(c.DocIntel); err != nil {
		return fmt.Errorf("document intelligence config: %w", err)
	}
	if err := v.Struct(c.OpenAI); err != nil {
		return fmt.Errorf("openai config: %w", err)
	}
	return nil
}
