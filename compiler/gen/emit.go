package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

// genClient generates the <record>_ease.go file: the client type of the
// record with one method per operation and a Load method, bound to an
// ease.Executor.
func (g *JenniferGenerator) genClient(t *Type) *jen.File {
	f := g.NewFile(g.pkg)
	client, rcv := t.ClientName(), t.Receiver()
	executor := jen.Qual(runtimePkg, "Executor").Types(jen.Id(t.Name), jen.Id(t.CompanionName()))

	f.Commentf("%s runs the generated operations of %s against an executor.", client, t.Name)
	f.Type().Id(client).Struct(
		jen.Id("exec").Add(executor.Clone()),
	)

	f.Line()
	f.Commentf("%s returns a %s bound to exec.", t.ConstructorName(), client)
	f.Func().Id(t.ConstructorName()).Params(jen.Id("exec").Add(executor.Clone())).Op("*").Id(client).Block(
		jen.Return(jen.Op("&").Id(client).Values(jen.Dict{jen.Id("exec"): jen.Id("exec")})),
	)

	for _, op := range t.Ops {
		f.Line()
		for _, line := range strings.Split(op.Doc.Comment(op.GoName), "\n") {
			f.Comment(line)
		}
		params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
		for _, p := range op.Params {
			if p.Field != nil {
				params = append(params, jen.Id(p.GoName).Add(goType(p.Field.Type)))
			} else {
				params = append(params, jen.Id(p.GoName).Id(t.CompanionName()))
			}
		}
		f.Func().Params(jen.Id(rcv).Op("*").Id(client)).Id(op.GoName).Params(params...).
			Add(g.results(t, op)).
			Block(g.body(t, op, jen.Id(rcv).Dot("exec"))...)
	}

	f.Line()
	f.Commentf("Load gets at most limit %s records.", t.Name)
	f.Func().Params(jen.Id(rcv).Op("*").Id(client)).Id("Load").
		Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("limit").Int()).
		Params(jen.Index().Id(t.Name), jen.Error()).
		Block(jen.Return(jen.Id(rcv).Dot("exec").Dot("Load").Call(jen.Id("ctx"), jen.Id("limit"))))
	return f
}

// results returns the result list of an operation method.
func (g *JenniferGenerator) results(t *Type, op *Operation) *jen.Statement {
	switch op.Kind {
	case KindGetBy:
		return jen.Params(jen.Index().Add(goType(op.Target.Type)), jen.Error())
	case KindGetRecord, KindGetAll:
		return jen.Params(jen.Index().Id(t.Name), jen.Error())
	case KindUpdate, KindInsert:
		return jen.Params(jen.Id(t.Name), jen.Error())
	default:
		return jen.Params(jen.Int(), jen.Error())
	}
}

// body returns the statements of an operation method. Every method makes
// exactly one executor call and returns its error unmodified.
func (g *JenniferGenerator) body(t *Type, op *Operation, exec *jen.Statement) []jen.Code {
	arg := func(i int) jen.Code { return jen.Id(op.Params[i].GoName) }
	switch op.Kind {
	case KindGetBy:
		return []jen.Code{
			jen.List(jen.Id("records"), jen.Err()).Op(":=").Add(exec).Dot("FilterByEquals").Call(jen.Id("ctx"), jen.Lit(op.Filter.Column), arg(0)),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Id("values").Op(":=").Make(jen.Index().Add(goType(op.Target.Type)), jen.Len(jen.Id("records"))),
			jen.For(jen.List(jen.Id("i"), jen.Id("r")).Op(":=").Range().Id("records")).Block(
				jen.Id("values").Index(jen.Id("i")).Op("=").Id("r").Dot(op.Target.Name),
			),
			jen.Return(jen.Id("values"), jen.Nil()),
		}
	case KindGetRecord:
		return []jen.Code{jen.Return(exec.Dot("FilterByEquals").Call(jen.Id("ctx"), jen.Lit(op.Filter.Column), arg(0)))}
	case KindUpdate:
		return []jen.Code{jen.Return(exec.Dot("UpdateWhereEquals").Call(jen.Id("ctx"), jen.Lit(op.Filter.Column), arg(0), jen.Lit(op.Target.Column), arg(1)))}
	case KindDeleteBy:
		return []jen.Code{jen.Return(exec.Dot("DeleteWhereEquals").Call(jen.Id("ctx"), jen.Lit(op.Filter.Column), arg(0)))}
	case KindInsert:
		return []jen.Code{jen.Return(exec.Dot("Insert").Call(jen.Id("ctx"), arg(0)))}
	case KindGetAll:
		return []jen.Code{jen.Return(exec.Dot("LoadAll").Call(jen.Id("ctx")))}
	default:
		return []jen.Code{jen.Return(exec.Dot("DeleteAll").Call(jen.Id("ctx")))}
	}
}
