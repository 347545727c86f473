// Package metadata reads and validates the metadata document that describes
// a topic, its tables, and their editions.
//
// # Document format
//
// The document is TOML (metadata.toml) or YAML (metadata.yaml), chosen by
// file extension:
//
//	name = "naics"
//	description = "North American Industry Classification System"
//
//	[tables.naics_descriptions]
//	description = "Descriptions of every NAICS code"
//	schema = "naics"
//
//	[[tables.naics_descriptions.variables]]
//	name = "code"
//	description = "Six digit NAICS code"
//
//	[tables.naics_descriptions.editions.2022-01-01]
//	raw_path = "data/naics/raw/naics_descriptions_2022.csv"
//	variables = ["code", "title", "description"]
//
// Table names and edition dates are taken from the map keys when the
// entries do not repeat them.
//
// # Validation
//
// Each level is validated on its own: ValidateTopic checks only the
// top-level shape and does not descend into tables, ValidateTable checks a
// table and its variables but not its editions, and ValidateEdition checks
// one edition. Failures are *MetadataError values matching
// ingest.ErrInvalidMetadata.
package metadata
