package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/ease/compiler/gen"
)

// tableName returns the name of the generated table descriptor.
func tableName(t *gen.Type) string {
	return t.Name + "Table"
}

// genTable generates the table descriptor of a record and the constructor
// of its SQL-backed client.
func genTable(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile(h.Pkg())
	sqlPkg := h.SQLPkg()

	columns := make([]jen.Code, len(t.Fields))
	scan := make([]jen.Code, len(t.Fields))
	for i, field := range t.Fields {
		columns[i] = jen.Lit(field.Column)
		scan[i] = jen.Op("&").Id("r").Dot(field.Name)
	}
	values := jen.Dict{
		jen.Id("Name"):    jen.Lit(t.Table),
		jen.Id("Columns"): jen.Index().String().Values(columns...),
		jen.Id("Scan"): jen.Func().Params(jen.Id("s").Qual(sqlPkg, "Scanner")).Params(jen.Id(t.Name), jen.Error()).Block(
			jen.Var().Id("r").Id(t.Name),
			jen.Err().Op(":=").Id("s").Dot("Scan").Call(scan...),
			jen.Return(jen.Id("r"), jen.Err()),
		),
	}
	if key := t.Key(); key != nil {
		values[jen.Id("Key")] = jen.Lit(key.Column)
	}
	// The insert columns are only known when the companion declaration was
	// loaded. Otherwise the companion provides them through ease.Inserter.
	if t.Companion != nil && len(t.Companion.Fields) > 0 {
		insertColumns := make([]jen.Code, len(t.Companion.Fields))
		insertValues := make([]jen.Code, len(t.Companion.Fields))
		for i, field := range t.Companion.Fields {
			insertColumns[i] = jen.Lit(field.Column)
			insertValues[i] = jen.Id("n").Dot(field.Name)
		}
		values[jen.Id("InsertColumns")] = jen.Index().String().Values(insertColumns...)
		values[jen.Id("Values")] = jen.Func().Params(jen.Id("n").Id(t.CompanionName())).Index().Any().Block(
			jen.Return(jen.Index().Any().Values(insertValues...)),
		)
	}

	f.Commentf("%s maps %s to the %q table.", tableName(t), t.Name, t.Table)
	f.Var().Id(tableName(t)).Op("=").Qual(sqlPkg, "Table").Types(jen.Id(t.Name), jen.Id(t.CompanionName())).Values(values)

	ctor := "New" + t.Name + "SQLClient"
	f.Line()
	f.Commentf("%s returns a %s running on the given SQL connection.", ctor, t.ClientName())
	f.Func().Id(ctor).Params(jen.Id("drv").Qual(sqlPkg, "Querier")).Op("*").Id(t.ClientName()).Block(
		jen.Return(jen.Id(t.ConstructorName()).Call(
			jen.Qual(sqlPkg, "NewExecutor").Call(jen.Id("drv"), jen.Id(tableName(t))),
		)),
	)
	return f
}

// genClients generates SQLClients, holding the SQL-backed client of every
// record of the graph.
func genClients(h gen.GeneratorHelper) *jen.File {
	g := h.Graph()
	if len(g.Nodes) == 0 {
		return nil
	}
	f := h.NewFile(h.Pkg())
	sqlPkg := h.SQLPkg()

	fields := make([]jen.Code, len(g.Nodes))
	values := jen.Dict{}
	for i, t := range g.Nodes {
		fields[i] = jen.Id(t.Name).Op("*").Id(t.ClientName())
		values[jen.Id(t.Name)] = jen.Id("New" + t.Name + "SQLClient").Call(jen.Id("drv"))
	}
	f.Comment("SQLClients holds the SQL-backed clients of all records.")
	f.Type().Id("SQLClients").Struct(fields...)

	f.Line()
	f.Comment("NewSQLClients returns the clients of all records running on the given SQL connection.")
	f.Func().Id("NewSQLClients").Params(jen.Id("drv").Qual(sqlPkg, "Querier")).Op("*").Id("SQLClients").Block(
		jen.Return(jen.Op("&").Id("SQLClients").Values(values)),
	)
	return f
}
