// Package loader reads raw source files into in-memory tables.
//
// Supported file types:
//   - CSV and TSV: first record is the header; empty cells become nulls
//   - XLSX: first sheet by default (see WithSheet); first row is the header
//   - GeoJSON: one row per feature, properties as columns plus a "geometry"
//     column holding the WKT form of the feature geometry
//
// Every failure (unreadable path, or content that does not match the declared
// type) wraps ingest.ErrSourceIO. Cells are returned as read; type coercion is
// the schema's job.
package loader
