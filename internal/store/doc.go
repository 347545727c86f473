// Package store persists provenance records and validated tables in
// PostgreSQL through pgx.
//
// MetadataStore keeps the Topic → Table → Variable/Edition hierarchy in
// four tables of a dedicated schema (provenance by default). DataStore
// writes validated tables with COPY inside a single transaction.
package store
