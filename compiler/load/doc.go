// Package load extracts record schemas from their declarations.
//
// Records are read from three kinds of sources:
//
//   - Go source files (Source, GoFile), parsed with go/parser.
//   - Go packages (Package), loaded and type-checked with go/packages.
//   - Declaration files (File) in YAML or JSON, one record per document.
//
// In Go sources, a record is a struct type named on the command line or
// marked with an //ease:record directive:
//
//	//ease:record table=posts
//	type Post struct {
//	    ID        int    `ease:"key"`
//	    Title     string `db:"title"`
//	    Body      string
//	    Published bool
//	}
//
//	type NewPost struct {
//	    Title     string
//	    Body      string
//	    Published bool
//	}
//
// The db tag overrides the column of a field and the ease:"key" option marks
// the identity field. Every field of a record is persisted, so ease:"-" is
// rejected, as are embedded fields and fields of map, channel, function or
// interface type. A struct named New<Record> next to the record is recorded
// as its insertion companion.
package load
