// Package tables registers the reference tables this repository knows how
// to load. Each definition pairs a raw file type and write mode with a
// cleanup transform and a strict schema.
//
// Adding a table means writing its transform and schema and registering the
// definition in Builtin; the workflow itself is shared.
package tables
