package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// wrapConnectionError marks err as a connection failure and appends a hint
// for the common causes. Configuration errors keep their own class.
func wrapConnectionError(err error, cfg *ingest.ConnectionConfig) error {
	if errors.Is(err, ingest.ErrInvalidConfig) || errors.Is(err, ingest.ErrConnectionFailed) {
		return err
	}

	target := describe(cfg)
	msg := strings.ToLower(err.Error())
	var hint string
	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "actively refused"):
		hint = fmt.Sprintf("is PostgreSQL running? check: pg_isready -h %s -p %d", cfg.Host, cfg.Port)
	case strings.Contains(msg, "no such host"):
		hint = fmt.Sprintf("cannot resolve host %q", cfg.Host)
	case strings.Contains(msg, "password authentication failed"):
		hint = "check the password ($PGPASSWORD, ~/.pgpass or the connection URL) and the username"
	case strings.Contains(msg, "does not exist"):
		hint = fmt.Sprintf("create the database first: createdb %s", cfg.Database)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		hint = "the server did not answer in time; check host, port and firewall"
	case strings.Contains(msg, "certificate") || strings.Contains(msg, "tls") || strings.Contains(msg, "ssl"):
		hint = "check sslmode and the sslcert, sslkey and sslrootcert paths"
	case strings.Contains(msg, "too many connections"):
		hint = "the server reached max_connections"
	}

	if hint == "" {
		return fmt.Errorf("%w: %s: %w", ingest.ErrConnectionFailed, target, err)
	}
	return fmt.Errorf("%w: %s (%s): %w", ingest.ErrConnectionFailed, target, hint, err)
}
