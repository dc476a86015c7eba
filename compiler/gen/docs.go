package gen

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/ease/schema"
)

// Doc is the documentation of a generated operation: a title, and one
// argument line per parameter.
type Doc struct {
	// Verb is the lower-case action, such as "get" or "update".
	Verb string
	// Subject completes the title after the verb.
	Subject string
	// Args has one line per parameter, in call order.
	Args []string
}

// Document renders the documentation of an operation from the names of the
// record, its fields and the operation parameters.
func Document(r *schema.Record, naming Naming, op OperationSpec, params []Param) Doc {
	var (
		d    Doc
		name = r.Name
	)
	switch op.Kind {
	case KindGetBy:
		f, g := naming.many(word(op.Target)), word(op.Filter)
		d.Verb, d.Subject = "get", fmt.Sprintf("%s by filtering `%s`", f, g)
		d.Args = []string{fmt.Sprintf("`%s` is the `%s` by which you get the %s of %s", params[0].GoName, g, f, name)}
	case KindGetRecord:
		f := word(op.Filter)
		d.Verb, d.Subject = "get", fmt.Sprintf("%s by filtering `%s`", name, f)
		d.Args = []string{fmt.Sprintf("`%s` is the `%s` by which you get the list of %s", params[0].GoName, f, name)}
	case KindUpdate:
		f, g := word(op.Target), word(op.Filter)
		d.Verb, d.Subject = "update", fmt.Sprintf("%s by `%s`", naming.many(f), g)
		d.Args = []string{
			fmt.Sprintf("`%s` is the `%s` by which you update %s", params[0].GoName, g, name),
			fmt.Sprintf("`%s` is the new `%s`", params[1].GoName, f),
		}
	case KindDeleteBy:
		f := word(op.Filter)
		d.Verb, d.Subject = "delete", fmt.Sprintf("%s by filtering `%s`", name, f)
		d.Args = []string{fmt.Sprintf("`%s` is the `%s` by which you delete %s", params[0].GoName, f, name)}
	case KindInsert:
		d.Verb, d.Subject = "insert", "a new "+name
		d.Args = []string{fmt.Sprintf("`%s` is the new value for inserting. It must be a %s declared where %s lives", params[0].GoName, r.CompanionName(), name)}
	case KindGetAll:
		d.Verb, d.Subject = "get", "all "+name+" records"
	case KindDeleteAll:
		d.Verb, d.Subject = "delete", "all "+name+" records"
	}
	return d
}

// Title returns the title line, such as "Get titles by filtering `id`".
func (d Doc) Title() string {
	if d.Verb == "" {
		return d.Subject
	}
	// A Caser keeps state, so each call uses its own.
	return cases.Title(language.English).String(d.Verb) + " " + d.Subject
}

// Text renders the plain-text block of the operation: the title line, a
// blank line, the "Arguments" heading, a blank line, one "- " bullet per
// parameter, and a closing blank line. Operations without parameters render
// the title line and a blank line only.
func (d Doc) Text() string {
	var b strings.Builder
	b.WriteString(d.Title())
	b.WriteString("\n\n")
	if len(d.Args) == 0 {
		return b.String()
	}
	b.WriteString("Arguments\n\n")
	for _, arg := range d.Args {
		b.WriteString("- ")
		b.WriteString(arg)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// Comment renders the Go doc comment of the method implementing the
// operation, without comment markers.
func (d Doc) Comment(goName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %ss %s.", goName, d.Verb, d.Subject)
	if len(d.Args) == 0 {
		return b.String()
	}
	b.WriteString("\n\n# Arguments\n")
	for _, arg := range d.Args {
		b.WriteString("\n  - ")
		b.WriteString(arg)
		b.WriteString(".")
	}
	return b.String()
}

// RenderDocs renders the plain-text blocks of the given operations in order.
func RenderDocs(ops []*Operation) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.Doc.Text())
	}
	return b.String()
}
