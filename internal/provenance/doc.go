// Package provenance audits one edition of a table and records it.
//
// Auditor.Record enriches the metadata document in place and commits the
// resulting record through an ingest.MetadataStore:
//
//  1. back-fill every variable's data type from the schema (a variable with
//     no matching schema field is drift)
//  2. validate the topic shape, without descending into tables
//  3. validate the table shape
//  4. attach version, absolute script path, record count, run ID and
//     timestamp to the edition, then validate the edition
//  5. commit topic, table, variables and edition in one transaction
//
// Nothing is written unless steps 1 to 4 all pass.
package provenance
