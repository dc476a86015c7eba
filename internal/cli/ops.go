package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/ease/compiler"
	"github.com/syssam/ease/compiler/gen"
)

// InspectOptions holds flags for the commands that print the operations
// of records without generating them.
type InspectOptions struct {
	*RootOptions
	Naming string
	Types  []string
}

func (o *InspectOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Naming, "naming", "", "operation naming mode (plural|singular|inflect)")
	cmd.Flags().StringSliceVar(&o.Types, "type", nil, "record types to load from Go sources (default: types marked //ease:record)")
}

// graph loads the records of the sources and synthesizes their operations.
func (o *InspectOptions) graph(args []string) (*gen.Graph, error) {
	sources, err := o.sources(args)
	if err != nil {
		return nil, err
	}
	naming, err := gen.ParseNaming(resolveString(o.Naming, o.Config.Naming))
	if err != nil {
		return nil, ConfigError("invalid configuration", err)
	}
	g, err := compiler.LoadGraph(&gen.Config{Naming: naming}, sources,
		compiler.Types(resolveStrings(o.Types, o.Config.Generate.Types)...),
		compiler.Logger(o.Logger),
	)
	if err != nil {
		return nil, generationError("loading records", err)
	}
	return g, nil
}

// OpsOptions holds flags for the ops command.
type OpsOptions struct {
	InspectOptions
	JSON bool
}

// NewOpsCommand creates the ops command.
func NewOpsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpsOptions{InspectOptions: InspectOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "ops [source]...",
		Short: "List the operations of records",
		Long: `List the operations derived from each record, in generation order,
with their Go names and parameters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.graph(args)
			if err != nil {
				return err
			}
			if opts.JSON {
				return writeOpsJSON(cmd.OutOrStdout(), g)
			}
			return writeOps(cmd.OutOrStdout(), g)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the operations as JSON")
	return cmd
}

// OpInfo is the JSON form of an operation.
type OpInfo struct {
	Record string      `json:"record"`
	Name   string      `json:"name"`
	GoName string      `json:"go_name"`
	Kind   string      `json:"kind"`
	Params []ParamInfo `json:"params"`
	Doc    string      `json:"doc"`
}

// ParamInfo is the JSON form of an operation parameter.
type ParamInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func opInfos(g *gen.Graph) []OpInfo {
	var infos []OpInfo
	for _, t := range g.Nodes {
		for _, op := range t.Ops {
			info := OpInfo{
				Record: t.Name,
				Name:   op.Name,
				GoName: op.GoName,
				Kind:   op.Kind.String(),
				Params: make([]ParamInfo, len(op.Params)),
				Doc:    op.Doc.Title(),
			}
			for i, p := range op.Params {
				info.Params[i] = ParamInfo{Name: p.Name, Type: paramType(t, p)}
			}
			infos = append(infos, info)
		}
	}
	return infos
}

func paramType(t *gen.Type, p gen.Param) string {
	if p.Role == gen.RoleCompanion {
		return t.CompanionName()
	}
	return p.Field.Type.String()
}

func writeOpsJSON(w io.Writer, g *gen.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(opInfos(g))
}

func writeOps(w io.Writer, g *gen.Graph) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	record := ""
	for _, info := range opInfos(g) {
		if info.Record != record {
			if record != "" {
				fmt.Fprintln(tw)
			}
			record = info.Record
			fmt.Fprintf(tw, "%s\n", record)
		}
		params := make([]string, len(info.Params))
		for i, p := range info.Params {
			params[i] = p.Name + " " + p.Type
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", info.Name, info.GoName, info.Kind, strings.Join(params, ", "))
	}
	return tw.Flush()
}

// NewDocsCommand creates the docs command.
func NewDocsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "docs [source]...",
		Short: "Print the documentation of the operations of records",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.graph(args)
			if err != nil {
				return err
			}
			for _, t := range g.Nodes {
				if _, err := io.WriteString(cmd.OutOrStdout(), gen.RenderDocs(t.Ops)); err != nil {
					return GeneralError("writing docs", err)
				}
			}
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}
