package sql

import (
	"testing"

	"github.com/syssam/ease/dialect"
)

func BenchmarkBuilder_Update(b *testing.B) {
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).
					WriteString("UPDATE ").Ident("posts").
					WriteString(" SET ").Ident("title").WriteString(" = ").Arg("x").
					WriteString(" WHERE ").Ident("id").WriteString(" = ").Arg(1).
					WriteString(" RETURNING ").IdentComma("id", "title", "body", "published").
					Query()
			}
		})
	}
}

func BenchmarkBuilder_Insert(b *testing.B) {
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).
					WriteString("INSERT INTO ").Ident("posts").
					WriteString(" (").IdentComma("title", "body", "published").
					WriteString(") VALUES (").Args("Hello", "World", false).WriteString(")").
					Query()
			}
		})
	}
}
