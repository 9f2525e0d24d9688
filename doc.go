// Package ddlinfer infers a relational table schema from a tabular resource
// and emits a dialect specific CREATE TABLE statement.
//
// A resource is a file path or an in-memory payload in one of the supported
// formats: CSV, TSV, LTSV, NDJSON, JSON, YAML, XLSX, ODS, Parquet and HTML
// tables, optionally compressed with gzip, bzip2, xz or zstandard.
//
// # Basic Usage
//
//	result, err := ddlinfer.Generate(ctx,
//	    ddlinfer.Resource{Path: "basic.ods"},
//	    ddlinfer.SQLTarget{Dialect: "crate"},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Raw())
//
// # Backends
//
// Two inference strategies produce the same result shape:
//
//   - direct reads a bounded prefix of line-oriented text (CSV, TSV, LTSV,
//     NDJSON) and infers integer, real, text and datetime columns.
//   - general materializes the addressed sheet or table of any supported
//     format and infers detailed types (date, time, boolean, object).
//
// The general backend is used when the content type cannot be detected, when
// it is requested explicitly, and for workbooks, Parquet and structured
// documents. Otherwise direct is used.
//
// # Table and Primary Key
//
// Without an explicit table name, the file stem is used: "/a/b/basic.ods"
// becomes "basic" and "data.csv.gz" becomes "data".
//
// Without an explicit primary key, the first column named "id", "pk",
// "primary_key", "key" or "<table>_id" is chosen, otherwise the first column
// whose sampled values are all present and distinct. Uniqueness is only
// checked within the sample.
//
// # Comparing Results
//
// SQLResult.Canonical collapses whitespace and strips trailing semicolons;
// SQLResult.Equal compares canonical forms.
package ddlinfer
