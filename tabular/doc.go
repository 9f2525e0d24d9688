// Package tabular reads tabular resources into in-memory tables.
//
// Two read modes are offered. Peek reads a bounded prefix of a line-oriented
// payload (CSV, TSV, LTSV, NDJSON) and never materializes more than the
// configured number of bytes and rows. Load materializes the whole addressed
// table for every supported format, including spreadsheets (XLSX, ODS),
// Parquet, JSON/YAML documents and HTML tables.
//
// Compressed payloads (gzip, bzip2, xz, zstd) are decompressed transparently.
//
// Describe turns a loaded Dataset into a model.Schema. Formats that carry
// their own column types (Parquet, nested documents) keep those types;
// everything else is inferred from the string values.
package tabular
