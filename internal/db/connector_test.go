package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/ingest/internal/logging"
	"github.com/vvka-141/ingest/pkg/ingest"
)

func TestNewConnector_Dispatch(t *testing.T) {
	logger := logging.NewNullLogger()

	tests := []struct {
		name    string
		cfg     *ingest.ConnectionConfig
		want    any
		wantErr error
	}{
		{"standard", &ingest.ConnectionConfig{Host: "h", Port: 5432}, &StandardConnector{}, nil},
		{"certificate", &ingest.ConnectionConfig{Host: "h", Port: 5432, AuthMethod: ingest.AuthMethodCertificate}, &StandardConnector{}, nil},
		{"aws", &ingest.ConnectionConfig{Host: "rds", Port: 5432, Username: "u", AWSRegion: "us-east-1", AuthMethod: ingest.AuthMethodAWSIAM}, &TokenConnector{}, nil},
		{"aws without region", &ingest.ConnectionConfig{Host: "rds", Port: 5432, Username: "u", AuthMethod: ingest.AuthMethodAWSIAM}, nil, ingest.ErrInvalidConfig},
		{"aws without user", &ingest.ConnectionConfig{Host: "rds", Port: 5432, AWSRegion: "us-east-1", AuthMethod: ingest.AuthMethodAWSIAM}, nil, ingest.ErrInvalidConfig},
		{"google", &ingest.ConnectionConfig{Username: "svc", GoogleInstance: "p:r:i", AuthMethod: ingest.AuthMethodGoogleIAM}, &CloudSQLConnector{}, nil},
		{"google without instance", &ingest.ConnectionConfig{Username: "svc", AuthMethod: ingest.AuthMethodGoogleIAM}, nil, ingest.ErrInvalidConfig},
		{"unknown", &ingest.ConnectionConfig{AuthMethod: ingest.AuthMethod(99)}, nil, ingest.ErrUnsupportedAuthMethod},
		{"nil config", nil, nil, ingest.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := NewConnector(tt.cfg, logger)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, conn)
		})
	}
}

func TestNewConnector_PanicsWithoutLogger(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewConnector(&ingest.ConnectionConfig{}, nil)
	})
}

type stubTokenProvider struct {
	calls int
	err   error
}

func (p *stubTokenProvider) GetToken(context.Context) (string, time.Time, error) {
	p.calls++
	return "", time.Time{}, p.err
}

func (p *stubTokenProvider) String() string { return "stub" }

func TestTokenConnector_TokenFailureIsConnectionError(t *testing.T) {
	provider := &stubTokenProvider{err: errors.New("credentials expired")}
	conn := NewTokenConnector(&ingest.ConnectionConfig{Host: "h", Port: 5432, Database: "d"}, provider, logging.NewNullLogger())

	_, err := conn.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingest.ErrConnectionFailed))
	assert.Contains(t, err.Error(), "credentials expired")
	assert.Equal(t, 1, provider.calls, "permanent token errors are not retried")
}

func TestNewTokenConnector_PanicsWithoutProvider(t *testing.T) {
	assert.Panics(t, func() {
		NewTokenConnector(&ingest.ConnectionConfig{}, nil, logging.NewNullLogger())
	})
}

type fakeCredential struct {
	scopes []string
}

func (c *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	c.scopes = opts.Scopes
	return azcore.AccessToken{Token: "entra-token", ExpiresOn: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func TestAzureTokenProvider_RequestsPostgresScope(t *testing.T) {
	cred := &fakeCredential{}
	provider := NewAzureTokenProvider(cred, "fake")

	token, expires, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "entra-token", token)
	assert.Equal(t, 2030, expires.Year())
	assert.Equal(t, []string{AzurePostgreSQLScope}, cred.scopes)
	assert.Equal(t, "fake", provider.String())
}

func TestAWSIAMTokenProvider_Validation(t *testing.T) {
	_, err := NewAWSIAMTokenProvider(":5432", "us-east-1", "u")
	assert.True(t, errors.Is(err, ingest.ErrInvalidConfig))

	p, err := NewAWSIAMTokenProvider("rds:5432", "us-east-1", "u")
	require.NoError(t, err)
	assert.Equal(t, "AWS IAM (u@rds:5432, us-east-1)", p.String())
}

func TestWrapConnectionError(t *testing.T) {
	cfg := &ingest.ConnectionConfig{Host: "db", Port: 5432, Database: "reference"}

	tests := []struct {
		raw  string
		hint string
	}{
		{"dial tcp: connection refused", "pg_isready -h db -p 5432"},
		{"lookup db: no such host", `cannot resolve host "db"`},
		{"FATAL: password authentication failed for user", "check the password"},
		{`FATAL: database "reference" does not exist`, "createdb reference"},
		{"i/o timeout", "did not answer in time"},
		{"tls: failed to verify certificate", "sslrootcert"},
		{"sorry, too many connections", "max_connections"},
		{"something odd", ""},
	}
	for _, tt := range tests {
		raw := errors.New(tt.raw)
		err := wrapConnectionError(raw, cfg)
		assert.True(t, errors.Is(err, ingest.ErrConnectionFailed))
		assert.True(t, errors.Is(err, raw))
		assert.Contains(t, err.Error(), "db:5432/reference")
		if tt.hint != "" {
			assert.True(t, strings.Contains(err.Error(), tt.hint), "%q should mention %q", err, tt.hint)
		}
	}
}

func TestWrapConnectionError_KeepsConfigErrors(t *testing.T) {
	cfgErr := errors.Join(errors.New("bad"), ingest.ErrInvalidConfig)
	err := wrapConnectionError(cfgErr, &ingest.ConnectionConfig{})
	assert.Same(t, cfgErr, err)
}

func TestPoolConfig_AppliesSizing(t *testing.T) {
	pc, err := poolConfig("postgresql://u@localhost:5432/d", logging.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, int32(DefaultMaxConns), pc.MaxConns)
	assert.Equal(t, int32(DefaultMinConns), pc.MinConns)
	assert.Equal(t, DefaultMaxConnIdleTime, pc.MaxConnIdleTime)
	assert.NotNil(t, pc.ConnConfig.OnNotice)
}
