package evalreport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/shell"
)

// Duration is a Go duration string such as "30s" or "2m"
type Duration string

// ReportKind names an output format, "junit" or "text"
type ReportKind string

// Config holds Langfuse connection settings and report defaults
type Config struct {
	Host             string     `yaml:"host,omitempty" json:"host,omitempty" env:"LANGFUSE_HOST, default=https://cloud.langfuse.com" jsonschema:"Langfuse base URL (defaults to https://cloud.langfuse.com)"`
	PublicKey        string     `yaml:"public_key,omitempty" json:"public_key,omitempty" env:"LANGFUSE_PUBLIC_KEY" jsonschema:"Langfuse project public key"`
	SecretKey        string     `yaml:"secret_key,omitempty" json:"secret_key,omitempty" env:"LANGFUSE_SECRET_KEY" jsonschema:"Langfuse project secret key"`
	Timeout          Duration   `yaml:"timeout,omitempty" json:"timeout,omitempty" env:"LANGFUSE_TIMEOUT, default=30s" jsonschema:"HTTP timeout for Langfuse requests (e.g., '30s', '2m')"`
	SuccessScoreName string     `yaml:"success_score_name,omitempty" json:"success_score_name,omitempty" jsonschema:"Score whose value of exactly 1.0 marks an item as passing (defaults to did_item_pass)"`
	ReportType       ReportKind `yaml:"report_type,omitempty" json:"report_type,omitempty" jsonschema:"Report format to produce when none is given on the command line"`
}

// TimeoutDuration parses Timeout, falling back to DefaultTimeout when unset
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(string(c.Timeout))
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// ClientConfig converts the resolved settings into a ClientConfig
func (c *Config) ClientConfig() (ClientConfig, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return ClientConfig{}, err
	}
	if c.PublicKey == "" || c.SecretKey == "" {
		return ClientConfig{}, ErrMissingCredentials
	}
	return ClientConfig{
		Host:      c.Host,
		PublicKey: c.PublicKey,
		SecretKey: c.SecretKey,
		Timeout:   timeout,
	}, nil
}

// ConfigFromEnv populates a Config from LANGFUSE_* environment variables
func ConfigFromEnv(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var config Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &config,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &config, nil
}

// Merge overlays the non-empty fields of other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.PublicKey != "" {
		c.PublicKey = other.PublicKey
	}
	if other.SecretKey != "" {
		c.SecretKey = other.SecretKey
	}
	if other.Timeout != "" {
		c.Timeout = other.Timeout
	}
	if other.SuccessScoreName != "" {
		c.SuccessScoreName = other.SuccessScoreName
	}
	if other.ReportType != "" {
		c.ReportType = other.ReportType
	}
}

// LoadConfig loads a configuration from a YAML or JSON file.
// The file format is detected by the file extension (.yaml, .yml, or .json).
// Environment variables in the file are expanded using ${VAR} or $VAR syntax,
// including shell-style defaults: ${VAR:-default}
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedStr, err := shell.Expand(string(data), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}
	expandedData := []byte(expandedStr)

	var config Config
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expandedData, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(expandedData, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file extension: %s (expected .yaml, .yml, or .json)", ext)
	}

	if _, err := config.TimeoutDuration(); err != nil {
		return nil, err
	}
	switch config.ReportType {
	case "", "junit", "text":
	default:
		return nil, fmt.Errorf("report_type must be junit or text, got %q", config.ReportType)
	}

	return &config, nil
}

// generateSchema creates a jsonschema.Schema for Config with custom metadata
func generateSchema() (*jsonschema.Schema, error) {
	customSchemas := map[reflect.Type]*jsonschema.Schema{
		reflect.TypeFor[Duration]():   {Type: "string", Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`, Default: json.RawMessage(`"30s"`)},
		reflect.TypeFor[ReportKind](): {Type: "string", Enum: []any{"junit", "text"}, Default: json.RawMessage(`"junit"`)},
	}

	opts := &jsonschema.ForOptions{TypeSchemas: customSchemas}

	schema, err := jsonschema.For[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON schema: %w", err)
	}

	schema.Title = "Langfuse Report Configuration"
	schema.Description = "Connection settings and report defaults for exporting Langfuse dataset runs"
	schema.Schema = "https://json-schema.org/draft/2020-12/schema"

	return schema, nil
}

func SchemaForConfig() (string, error) {
	schema, err := generateSchema()
	if err != nil {
		return "", err
	}

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal final schema: %w", err)
	}
	return string(schemaJSON), nil
}

// ValidationError represents a single validation error with location information
type ValidationError struct {
	Path    string // JSON path to the error (e.g., "timeout")
	Message string // Human-readable error message
}

// ValidationResult contains the results of validating a config file
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidateConfigFile validates a configuration file against the JSON schema.
// YAML files are converted to JSON before validation.
func ValidateConfigFile(filePath string) (*ValidationResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// validate what LoadConfig would see, not the raw template
	expandedStr, err := shell.Expand(string(data), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}
	data = []byte(expandedStr)

	var jsonData []byte
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		var yamlData any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		jsonData, err = json.Marshal(yamlData)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
		}
	case ".json":
		jsonData = data
	default:
		return nil, fmt.Errorf("unsupported file extension: %s (expected .yaml, .yml, or .json)", ext)
	}

	schema, err := generateSchema()
	if err != nil {
		return nil, err
	}

	var configData any
	if err = json.Unmarshal(jsonData, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse config as JSON: %w", err)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema: %w", err)
	}

	validationErr := resolved.Validate(configData)

	result := &ValidationResult{
		Valid: validationErr == nil,
	}

	if validationErr != nil {
		result.Errors = []ValidationError{
			{
				Path:    "",
				Message: validationErr.Error(),
			},
		}
	}

	return result, nil
}
