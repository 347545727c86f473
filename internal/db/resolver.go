package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/ingest/internal/config"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// Environment variables consulted when resolving connections.
const (
	EnvDatabaseURL       = "INGEST_DATABASE_URL"
	EnvMetadataURL       = "INGEST_METADATA_URL"
	EnvGenericURL        = "DATABASE_URL"
	EnvAzureClientSecret = "AZURE_CLIENT_SECRET"
)

// Resolver turns flags, environment and ingest.yaml into connection configs.
//
// Precedence, highest first: the URL flag, the role's URL variable
// (INGEST_DATABASE_URL or INGEST_METADATA_URL), DATABASE_URL for the
// destination, then ingest.yaml with libpq variables (PGHOST, PGPORT,
// PGUSER, PGPASSWORD, PGDATABASE, PGSSLMODE) overriding its fields.
// The metadata store falls back to the destination.
type Resolver struct {
	project *config.ProjectConfig
	getenv  func(string) string
}

// NewResolver reads the process environment.
func NewResolver(project *config.ProjectConfig) *Resolver {
	return NewResolverWithEnv(project, os.Getenv)
}

// NewResolverWithEnv reads variables through getenv.
func NewResolverWithEnv(project *config.ProjectConfig, getenv func(string) string) *Resolver {
	if project == nil {
		project = config.Default(".")
	}
	if getenv == nil {
		panic("getenv cannot be nil")
	}
	return &Resolver{project: project, getenv: getenv}
}

// Destination resolves the destination store connection.
func (r *Resolver) Destination(flagURL string) (*ingest.ConnectionConfig, error) {
	for _, url := range []string{flagURL, r.getenv(EnvDatabaseURL), r.getenv(EnvGenericURL)} {
		if url != "" {
			return r.fromURL(url)
		}
	}
	return r.fromProject(r.project.Destination)
}

// Metadata resolves the metadata store connection.
func (r *Resolver) Metadata(flagURL string, destination *ingest.ConnectionConfig) (*ingest.ConnectionConfig, error) {
	for _, url := range []string{flagURL, r.getenv(EnvMetadataURL)} {
		if url != "" {
			return r.fromURL(url)
		}
	}
	if !r.project.Metadata.IsZero() {
		return r.fromProject(r.project.Metadata)
	}
	if destination == nil {
		return nil, fmt.Errorf("no metadata store connection configured: %w", ingest.ErrInvalidConfig)
	}
	clone := *destination
	clone.AdditionalParams = make(map[string]string, len(destination.AdditionalParams))
	for k, v := range destination.AdditionalParams {
		clone.AdditionalParams[k] = v
	}
	return &clone, nil
}

func (r *Resolver) fromURL(url string) (*ingest.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(url)
	if err != nil {
		return nil, err
	}
	if cfg.Password == "" {
		cfg.Password = r.getenv("PGPASSWORD")
	}
	return cfg, nil
}

func (r *Resolver) fromProject(pc config.ConnectionConfig) (*ingest.ConnectionConfig, error) {
	if pc.URL != "" {
		cfg, err := r.fromURL(pc.URL)
		if err != nil {
			return nil, err
		}
		return cfg, r.applyAuth(cfg, pc)
	}

	cfg := newConnectionConfig()
	cfg.Host = r.first("PGHOST", pc.Host, DefaultHost)
	cfg.Username = r.first("PGUSER", pc.Username, r.getenv("USER"))
	cfg.Database = r.first("PGDATABASE", pc.Database, "")
	cfg.SSLMode = r.first("PGSSLMODE", pc.SSLMode, DefaultSSLMode)
	cfg.Password = r.getenv("PGPASSWORD")
	cfg.SSLCert = pc.SSLCert
	cfg.SSLKey = pc.SSLKey
	cfg.SSLRootCert = pc.SSLRootCert

	switch {
	case r.getenv("PGPORT") != "":
		port, err := strconv.Atoi(r.getenv("PGPORT"))
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT %q: %w", r.getenv("PGPORT"), ingest.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	}

	if cfg.SSLCert != "" && cfg.SSLKey != "" {
		cfg.AuthMethod = ingest.AuthMethodCertificate
	}
	return cfg, r.applyAuth(cfg, pc)
}

// applyAuth sets the cloud authentication fields named in ingest.yaml.
func (r *Resolver) applyAuth(cfg *ingest.ConnectionConfig, pc config.ConnectionConfig) error {
	if pc.AuthMethod == "" {
		return nil
	}
	method, err := ParseAuthMethod(pc.AuthMethod)
	if err != nil {
		return err
	}
	cfg.AuthMethod = method

	switch method {
	case ingest.AuthMethodAWSIAM:
		cfg.AWSRegion = r.first("AWS_REGION", pc.AWSRegion, "")
	case ingest.AuthMethodAzureEntraID:
		cfg.AzureTenantID = r.first("AZURE_TENANT_ID", pc.AzureTenantID, "")
		cfg.AzureClientID = r.first("AZURE_CLIENT_ID", pc.AzureClientID, "")
		cfg.AzureClientSecret = r.getenv(EnvAzureClientSecret)
	case ingest.AuthMethodGoogleIAM:
		cfg.GoogleInstance = pc.GoogleInstance
	}
	return nil
}

// first returns the environment variable env, then fileValue, then def.
func (r *Resolver) first(env, fileValue, def string) string {
	if v := r.getenv(env); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return def
}
