// Package files groups the raw-file handling of an ingestion run:
//   - filesystem: file access abstraction (OS and in-memory)
//   - loader: reads CSV, TSV, XLSX and GeoJSON files into tables, converts workbooks to CSV
//   - scanner: lists the raw files of a table with checksums and edition hints
package files
