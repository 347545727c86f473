package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/ingest/pkg/ingest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeConfig(t, `app:
  name: naics
  log_file: logs/ingest.log
data_dir: raw-data
metadata_file: metadata.yaml
destination:
  host: warehouse
  port: 5433
  username: loader
  database: reference
  sslmode: require
  sslcert: /path/client.crt
  sslkey: /path/client.key
  sslrootcert: /path/ca.crt
metadata:
  url: postgresql://audit@meta:5432/provenance
schemas:
  destination: census
  metadata: audit
timeout: 10m
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "naics", cfg.App.Name)
	assert.Equal(t, "logs/ingest.log", cfg.App.LogFile)
	assert.Equal(t, "raw-data", cfg.DataDir)
	assert.Equal(t, "metadata.yaml", cfg.MetadataFile)
	assert.Equal(t, "warehouse", cfg.Destination.Host)
	assert.Equal(t, 5433, cfg.Destination.Port)
	assert.Equal(t, "loader", cfg.Destination.Username)
	assert.Equal(t, "reference", cfg.Destination.Database)
	assert.Equal(t, "require", cfg.Destination.SSLMode)
	assert.Equal(t, "/path/client.crt", cfg.Destination.SSLCert)
	assert.Equal(t, "/path/client.key", cfg.Destination.SSLKey)
	assert.Equal(t, "/path/ca.crt", cfg.Destination.SSLRootCert)
	assert.Equal(t, "postgresql://audit@meta:5432/provenance", cfg.MetadataConnection().URL)
	assert.Equal(t, "census", cfg.Schemas.Destination)
	assert.Equal(t, "audit", cfg.Schemas.Metadata)
	assert.Equal(t, dir, cfg.Dir)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoad_Defaults(t *testing.T) {
	dir := writeConfig(t, "destination:\n  host: localhost\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultMetadataFile, cfg.MetadataFile)
	assert.Equal(t, ingest.DefaultDestinationSchema, cfg.Schemas.Destination)
	assert.Equal(t, ingest.DefaultMetadataSchema, cfg.Schemas.Metadata)
	assert.True(t, cfg.Metadata.IsZero())
	assert.Equal(t, cfg.Destination, cfg.MetadataConnection(), "metadata store defaults to the destination")

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, ingest.DefaultTimeout, timeout)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, "destination: [unclosed\n")

	_, err := Load(dir)
	assert.True(t, errors.Is(err, ingest.ErrInvalidConfig))
}

func TestLoad_InvalidTimeout(t *testing.T) {
	for _, timeout := range []string{"soon", "-5m", "0s"} {
		dir := writeConfig(t, "timeout: "+timeout+"\n")
		_, err := Load(dir)
		assert.True(t, errors.Is(err, ingest.ErrInvalidConfig), timeout)
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
}

func TestPath(t *testing.T) {
	cfg := Default("/srv/project")

	assert.Equal(t, filepath.Join("/srv/project", "data"), cfg.Path("data"))
	assert.Equal(t, "/abs/metadata.toml", cfg.Path("/abs/metadata.toml"))
	assert.Equal(t, "", cfg.Path(""))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte("INGEST_TEST_ENV_VALUE=from-file\n"), 0644))
	t.Setenv("INGEST_TEST_ENV_VALUE", "")
	os.Unsetenv("INGEST_TEST_ENV_VALUE")

	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "from-file", os.Getenv("INGEST_TEST_ENV_VALUE"))
}

func TestLoadEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte("INGEST_TEST_ENV_KEEP=from-file\n"), 0644))
	t.Setenv("INGEST_TEST_ENV_KEEP", "from-shell")

	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "from-shell", os.Getenv("INGEST_TEST_ENV_KEEP"))
}

func TestLoadEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(t.TempDir()))
}
