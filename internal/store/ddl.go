package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// metadataDDL creates the provenance tables. %[1]s is the quoted schema.
const metadataDDL = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

CREATE TABLE IF NOT EXISTS %[1]s.topic (
    name        text PRIMARY KEY,
    description text NOT NULL DEFAULT '',
    updated_at  timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.dataset (
    topic       text NOT NULL REFERENCES %[1]s.topic (name) ON DELETE CASCADE,
    name        text NOT NULL,
    description text NOT NULL DEFAULT '',
    schema_name text NOT NULL DEFAULT '',
    updated_at  timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (topic, name)
);

CREATE TABLE IF NOT EXISTS %[1]s.variable (
    topic       text NOT NULL,
    dataset     text NOT NULL,
    name        text NOT NULL,
    position    integer NOT NULL,
    data_type   text NOT NULL,
    description text NOT NULL DEFAULT '',
    PRIMARY KEY (topic, dataset, name),
    FOREIGN KEY (topic, dataset) REFERENCES %[1]s.dataset (topic, name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS %[1]s.edition (
    topic        text NOT NULL,
    dataset      text NOT NULL,
    edition_date text NOT NULL,
    raw_path     text NOT NULL,
    raw_checksum text NOT NULL DEFAULT '',
    variables    jsonb NOT NULL,
    version      text NOT NULL,
    script_path  text NOT NULL,
    num_records  bigint NOT NULL CHECK (num_records >= 0),
    run_id       uuid NOT NULL,
    recorded_at  timestamptz NOT NULL,
    PRIMARY KEY (topic, dataset, edition_date),
    FOREIGN KEY (topic, dataset) REFERENCES %[1]s.dataset (topic, name) ON DELETE CASCADE
);
`

// columnTypes maps schema field types to PostgreSQL column types.
var columnTypes = map[ingest.FieldType]string{
	ingest.FieldText:    "text",
	ingest.FieldInteger: "bigint",
	ingest.FieldFloat:   "double precision",
	ingest.FieldDecimal: "numeric",
	ingest.FieldBoolean: "boolean",
	ingest.FieldDate:    "date",
}

// ColumnType returns the PostgreSQL type for t. Unknown types are stored as text.
func ColumnType(t ingest.FieldType) string {
	if pg, ok := columnTypes[t]; ok {
		return pg
	}
	return "text"
}

// createTableSQL renders CREATE TABLE for a validated table.
func createTableSQL(dest pgx.Identifier, columns []string, types []ingest.FieldType, ifNotExists bool) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", dest.Sanitize())
	}
	if len(types) != len(columns) {
		return "", fmt.Errorf("table %s: %d columns but %d types", dest.Sanitize(), len(columns), len(types))
	}

	sql := "CREATE TABLE "
	if ifNotExists {
		sql += "IF NOT EXISTS "
	}
	sql += dest.Sanitize() + " ("
	for i, col := range columns {
		if i > 0 {
			sql += ", "
		}
		sql += pgx.Identifier{col}.Sanitize() + " " + ColumnType(types[i])
	}
	return sql + ")", nil
}
