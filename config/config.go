// Package config loads generator settings from YAML or HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/joho/godotenv"
	"github.com/zclconf/go-cty/cty"
)

// Default values
const (
	// DefaultSampleRows is the number of rows inspected by primary key inference
	DefaultSampleRows = 1000
	// DefaultPeekBytes is the number of bytes read by the direct backend
	DefaultPeekBytes = 64 * 1024
	// EnvFileName is the dotenv file loaded next to the configuration file
	EnvFileName = ".env"
)

var (
	// ErrConfigValidation is returned when a loaded configuration is inconsistent
	ErrConfigValidation = errors.New("config: validation failed")

	// ErrUnsupportedConfigFormat is returned for files that are neither YAML nor HCL
	ErrUnsupportedConfigFormat = errors.New("config: unsupported configuration format")
)

// Config represents the generator configuration.
type Config struct {
	// Dialect is the default SQL dialect.
	Dialect string `yaml:"dialect" hcl:"dialect,optional"`
	// Backend forces an inference backend ("direct", "general"); empty lets the selector decide.
	Backend string `yaml:"backend" hcl:"backend,optional"`
	// SampleRows bounds the rows used for primary key inference and the direct sample.
	SampleRows int `yaml:"sample_rows" hcl:"sample_rows,optional"`
	// PeekBytes bounds the bytes read by the direct backend.
	PeekBytes int `yaml:"peek_bytes" hcl:"peek_bytes,optional"`
	// PrimaryKeyNames are the conventional primary key column names.
	PrimaryKeyNames []string `yaml:"primary_key_names" hcl:"primary_key_names,optional"`
	// Encoding is the text encoding of delimited inputs.
	Encoding string `yaml:"encoding" hcl:"encoding,optional"`
	// SanitizeTableName rewrites derived table names into plain identifiers.
	SanitizeTableName bool `yaml:"sanitize_table_name" hcl:"sanitize_table_name,optional"`
	// Verify replays sqlite DDL against an in-memory database.
	Verify bool `yaml:"verify" hcl:"verify,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SampleRows:      DefaultSampleRows,
		PeekBytes:       DefaultPeekBytes,
		PrimaryKeyNames: []string{"id", "pk", "primary_key", "key"},
	}
}

// Load reads the configuration from a .yaml/.yml or .hcl file.
// A .env file next to the configuration is loaded first, and ${VAR} / $VAR
// references in string settings are expanded.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(filepath.Join(filepath.Dir(path), EnvFileName)); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = parseYAML(content)
	case ".hcl":
		cfg, err = parseHCL(content, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
	if err != nil {
		return nil, err
	}

	cfg.expandEnvVars()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(content []byte) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(string(content)) == "" {
		return cfg, nil
	}
	// Parse YAML with strict mode to detect unknown fields
	if err := yaml.UnmarshalWithOptions(content, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func parseHCL(content []byte, path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}
	return cfg, nil
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("dialect", cty.StringVal(cfg.Dialect))
	root.SetAttributeValue("backend", cty.StringVal(cfg.Backend))
	root.SetAttributeValue("sample_rows", cty.NumberIntVal(int64(cfg.SampleRows)))
	root.SetAttributeValue("peek_bytes", cty.NumberIntVal(int64(cfg.PeekBytes)))
	root.SetAttributeValue("primary_key_names", stringList(cfg.PrimaryKeyNames))
	root.SetAttributeValue("encoding", cty.StringVal(cfg.Encoding))
	root.SetAttributeValue("sanitize_table_name", cty.BoolVal(cfg.SanitizeTableName))
	root.SetAttributeValue("verify", cty.BoolVal(cfg.Verify))

	file, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(f.Bytes()); err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}
	return nil
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	list := make([]cty.Value, 0, len(values))
	for _, v := range values {
		list = append(list, cty.StringVal(v))
	}
	return cty.ListVal(list)
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.SampleRows < 0 {
		return fmt.Errorf("%w: sample_rows must be non-negative, got %d", ErrConfigValidation, c.SampleRows)
	}
	if c.PeekBytes < 0 {
		return fmt.Errorf("%w: peek_bytes must be non-negative, got %d", ErrConfigValidation, c.PeekBytes)
	}
	for i, name := range c.PrimaryKeyNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: primary_key_names[%d] is empty", ErrConfigValidation, i)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "", "direct", "d", "general", "g", "ddlgen", "frictionless", "fl":
	default:
		return fmt.Errorf("%w: backend '%s' is invalid: must be one of direct, general", ErrConfigValidation, c.Backend)
	}
	return nil
}

// applyDefaults fills zero values with defaults.
func (c *Config) applyDefaults() {
	if c.SampleRows == 0 {
		c.SampleRows = DefaultSampleRows
	}
	if c.PeekBytes == 0 {
		c.PeekBytes = DefaultPeekBytes
	}
}

func (c *Config) expandEnvVars() {
	c.Dialect = expandEnvVars(c.Dialect)
	c.Backend = expandEnvVars(c.Backend)
	c.Encoding = expandEnvVars(c.Encoding)
	for i, name := range c.PrimaryKeyNames {
		c.PrimaryKeyNames[i] = expandEnvVars(name)
	}
}

// loadEnvFile loads a dotenv file if it exists. Variables already set win.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // a missing .env file is not an error
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}
