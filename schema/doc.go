// Package schema describes the persisted record types that ease generates
// operations for.
//
// A [Record] is the normalized form of a flat struct declaration: an ordered
// list of named, typed fields stored in a single table. Field order is
// significant. It drives the order in which operations are generated and
// named, so two records with the same fields in a different order produce
// different operation sequences.
//
//	rec, err := schema.NewRecord("Post",
//	    schema.NewField("ID", schema.Builtin("int")),
//	    schema.NewField("Title", schema.Builtin("string")),
//	    schema.NewField("Body", schema.Builtin("string")),
//	    schema.NewField("Published", schema.Builtin("bool")),
//	)
//
// Records are usually produced by the compiler/load package from Go source
// or declaration files rather than built by hand.
package schema
