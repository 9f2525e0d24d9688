// Package ddl turns a described table schema into dialect specific SQL.
//
// The sqlite, postgres and mysql dialects are planned by atlas
// (ariga.io/atlas); crate and ansi are rendered by an in-house builder.
// Emit never talks to a database: statements are executed through the
// capturing engine in package driver and the captured text is returned.
//
//	sql, err := ddl.Emit(ctx, schema, ddl.EmitOptions{
//		Dialect:   "crate",
//		TableName: "basic",
//	})
package ddl
