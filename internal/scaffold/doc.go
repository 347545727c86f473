// Package scaffold creates new data projects for `ingest init` from
// templates embedded in the binary. The naics template carries an
// ingest.yaml, a metadata.toml for the NAICS descriptions table, an
// .env.example and the conventional data/<table>/raw layout.
package scaffold
