package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/i2y/raml2graphql/internal/adapter/outbound/github"
	"github.com/i2y/raml2graphql/internal/domain"
)

const (
	envPrefix         = "raml2graphql"
	defaultConfigFile = "configs/raml2graphql.yaml"
)

// SchemaSource represents a single API description source with optional headers.
// In YAML it is either a plain string (the URL) or a mapping.
type SchemaSource struct {
	URL     string            `yaml:"url"`
	Type    string            `yaml:"type,omitempty"` // Schema type override: raml, openapi or github
	Headers map[string]string `yaml:"headers,omitempty"`
}

// UnmarshalYAML accepts both the string and the mapping form.
func (s *SchemaSource) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.URL = value.Value
		return nil
	}
	type plain SchemaSource
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SchemaSource(p)
	return nil
}

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	SchemaSources []SchemaSource `yaml:"schema_sources"`
	OutputFormat  string         `yaml:"output_format"`
	OutputDir     string         `yaml:"output_dir"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Fields are loaded from environment variables with the prefix "RAML2GRAPHQL_", potentially overriding file settings.
type Config struct {
	// Config File Path (Loaded first from env)
	ConfigFilePath string `envconfig:"CONFIG_FILE" default:"configs/raml2graphql.yaml"`

	// File-loaded fields (merged)
	SchemaSources []SchemaSource `ignored:"true"`

	// Environment-overridable fields
	ListenAddr               string        `envconfig:"LISTEN_ADDR" default:":8080"`
	AdminAddr                string        `envconfig:"ADMIN_ADDR" default:":8081"`
	HTTPClientTimeout        time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	ServerReadTimeout        time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	ServerWriteTimeout       time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	ServerIdleTimeout        time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	OtelExporterOtlpEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string        `envconfig:"LOG_LEVEL" default:"info"`
	// OutputFormat and OutputDir fall back to the file values when unset.
	OutputFormat string `envconfig:"OUTPUT_FORMAT"`
	OutputDir    string `envconfig:"OUTPUT_DIR"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Sources converts the configured schema sources to domain sources.
func (c *Config) Sources() []domain.SchemaSource {
	sources := make([]domain.SchemaSource, 0, len(c.SchemaSources))
	for _, s := range c.SchemaSources {
		sources = append(sources, domain.SchemaSource{
			URL:     s.URL,
			Type:    domain.SchemaType(s.Type),
			Headers: s.Headers,
		})
	}
	return sources
}

// Load loads configuration first from environment variables (to get file path),
// then from the specified YAML file, and finally merges/overrides with environment variables again.
// A missing file at the default path is not an error.
func Load() (*Config, error) {
	// 1. Load initial config from Env (primarily to get ConfigFilePath)
	var initialCfg Config
	if err := envconfig.Process(envPrefix, &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	// 2. Load config from YAML file if path is specified
	fileCfg, err := loadFile(initialCfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	// 3. Process environment variables AGAIN to allow overrides over file settings.
	finalCfg := initialCfg
	finalCfg.SchemaSources = validSources(fileCfg.SchemaSources)
	if err := envconfig.Process(envPrefix, &finalCfg); err != nil {
		return nil, fmt.Errorf("failed to process overriding environment variables: %w", err)
	}
	if finalCfg.OutputFormat == "" {
		finalCfg.OutputFormat = fileCfg.OutputFormat
	}
	if finalCfg.OutputFormat == "" {
		finalCfg.OutputFormat = "text"
	}
	if finalCfg.OutputDir == "" {
		finalCfg.OutputDir = fileCfg.OutputDir
	}

	return &finalCfg, nil
}

func loadFile(path string) (FileConfig, error) {
	var fileCfg FileConfig
	if path == "" {
		slog.Info("No config file path specified (RAML2GRAPHQL_CONFIG_FILE), using defaults/env vars only.")
		return fileCfg, nil
	}

	var data []byte
	var err error
	if github.IsGitHubURL(path) {
		data, err = github.LoadGitHubConfig(path)
		if err != nil {
			return fileCfg, fmt.Errorf("failed to load config from GitHub '%s': %w", path, err)
		}
		slog.Info("Loaded configuration from GitHub.", "url", path)
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == defaultConfigFile {
				slog.Debug("Default config file not found, using defaults/env vars only.", "path", path)
				return fileCfg, nil
			}
			return fileCfg, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		slog.Info("Loaded configuration from file.", "path", path)
	}

	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fileCfg, fmt.Errorf("failed to unmarshal config file '%s': %w", path, err)
	}
	return fileCfg, nil
}

// validSources drops entries without a URL or with an unknown type.
func validSources(in []SchemaSource) []SchemaSource {
	out := make([]SchemaSource, 0, len(in))
	for _, s := range in {
		switch {
		case s.URL == "":
			slog.Warn("Ignoring schema source without url")
		case !knownType(s.Type):
			slog.Warn("Ignoring schema source with unknown type", "url", s.URL, "type", s.Type)
		default:
			out = append(out, s)
		}
	}
	return out
}

func knownType(t string) bool {
	switch domain.SchemaType(t) {
	case "", domain.SchemaTypeRAML, domain.SchemaTypeOpenAPI, domain.SchemaTypeGitHub:
		return true
	}
	return false
}
