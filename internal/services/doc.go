// Package services orchestrates ingestion runs.
//
// SessionManager opens the metadata and destination pools for a run.
// Workflow drives one table edition through
// LOADED → TRANSFORMED → VALIDATED → AUDITED → PERSISTED, committing the
// provenance record before any data reaches the destination.
package services
