// Package config loads the ingest.yaml project file and the optional .env
// file that sit at the root of a data project.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/vvka-141/ingest/pkg/ingest"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const (
	ConfigFileName = "ingest.yaml"
	EnvFileName    = ".env"

	DefaultDataDir      = ingest.DefaultDataDir
	DefaultMetadataFile = "metadata.toml"
)

// ConnectionConfig describes one PostgreSQL connection in ingest.yaml.
// URL, when set, wins over the individual fields.
type ConnectionConfig struct {
	URL            string `yaml:"url,omitempty"`
	Host           string `yaml:"host,omitempty"`
	Port           int    `yaml:"port,omitempty"`
	Username       string `yaml:"username,omitempty"`
	Database       string `yaml:"database,omitempty"`
	SSLMode        string `yaml:"sslmode,omitempty"`
	SSLCert        string `yaml:"sslcert,omitempty"`
	SSLKey         string `yaml:"sslkey,omitempty"`
	SSLRootCert    string `yaml:"sslrootcert,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// IsZero reports whether nothing was configured.
func (c ConnectionConfig) IsZero() bool {
	return c == ConnectionConfig{}
}

type AppConfig struct {
	Name    string `yaml:"name"`
	LogFile string `yaml:"log_file,omitempty"`
}

type SchemaConfig struct {
	Destination string `yaml:"destination,omitempty"`
	Metadata    string `yaml:"metadata,omitempty"`
}

// ProjectConfig is the content of ingest.yaml.
type ProjectConfig struct {
	App          AppConfig        `yaml:"app"`
	DataDir      string           `yaml:"data_dir,omitempty"`
	MetadataFile string           `yaml:"metadata_file,omitempty"`
	Destination  ConnectionConfig `yaml:"destination"`

	// Metadata defaults to the destination connection when omitted.
	Metadata ConnectionConfig `yaml:"metadata,omitempty"`

	Schemas SchemaConfig `yaml:"schemas,omitempty"`
	Timeout string       `yaml:"timeout,omitempty"`

	// Dir is the directory ingest.yaml was read from.
	Dir string `yaml:"-"`
}

// Default returns the configuration used when a project has no ingest.yaml.
func Default(dir string) *ProjectConfig {
	cfg := &ProjectConfig{Dir: dir}
	cfg.applyDefaults()
	return cfg
}

// Load reads ingest.yaml from dir and fills in defaults.
func Load(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", ConfigFileName, err, ingest.ErrInvalidConfig)
	}
	cfg.Dir = dir
	cfg.applyDefaults()

	if _, err := cfg.TimeoutDuration(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault is Load, falling back to Default when ingest.yaml is absent.
func LoadOrDefault(dir string) (*ProjectConfig, error) {
	cfg, err := Load(dir)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(dir), nil
	}
	return cfg, err
}

// LoadEnv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *ProjectConfig) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.MetadataFile == "" {
		c.MetadataFile = DefaultMetadataFile
	}
	if c.Schemas.Destination == "" {
		c.Schemas.Destination = ingest.DefaultDestinationSchema
	}
	if c.Schemas.Metadata == "" {
		c.Schemas.Metadata = ingest.DefaultMetadataSchema
	}
}

// MetadataConnection returns the metadata store connection, which defaults
// to the destination connection.
func (c *ProjectConfig) MetadataConnection() ConnectionConfig {
	if c.Metadata.IsZero() {
		return c.Destination
	}
	return c.Metadata
}

// TimeoutDuration parses Timeout, returning ingest.DefaultTimeout when unset.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return ingest.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("timeout %q must be a positive duration: %w", c.Timeout, ingest.ErrInvalidConfig)
	}
	return d, nil
}

// Path resolves p against the project directory unless it is absolute.
func (c *ProjectConfig) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}
