// Package db opens pgx connection pools for the metadata and destination
// stores. It resolves connection parameters from flags, environment and
// ingest.yaml, and supports password, client-certificate and cloud IAM
// authentication.
package db
