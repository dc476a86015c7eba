// testgen renders the clients of two sample records into a temporary
// directory, so the output of the generator can be inspected without
// declaring records in a package.
//
//	go run ./compiler/gen/cmd/testgen -naming inflect -show car_ease_sql.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/syssam/ease/compiler/gen"
	"github.com/syssam/ease/compiler/gen/sql"
	"github.com/syssam/ease/schema"
)

func main() {
	var (
		naming = flag.String("naming", "plural", "operation naming: plural, singular or inflect")
		show   = flag.String("show", "user_ease.go", "generated file to print")
		keep   = flag.Bool("keep", true, "keep the output directory")
	)
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("testgen: ")

	n, err := gen.ParseNaming(*naming)
	if err != nil {
		log.Fatal(err)
	}
	records, err := sampleRecords()
	if err != nil {
		log.Fatalf("invalid record: %v", err)
	}
	dir, err := os.MkdirTemp("", "ease-testgen-*")
	if err != nil {
		log.Fatal(err)
	}
	if !*keep {
		defer os.RemoveAll(dir)
	}

	cfg, err := gen.NewConfig(
		gen.WithTarget(dir),
		gen.WithPackage("models"),
		gen.WithNaming(n),
		gen.WithFeatureNames("sql", "docs"),
	)
	if err != nil {
		log.Fatal(err)
	}
	graph, err := gen.NewGraph(cfg, records...)
	if err != nil {
		log.Fatal(err)
	}
	for _, t := range graph.Nodes {
		counts := gen.CountKinds(specs(t.Ops))
		fmt.Printf("%s: %d operations (get_by %d, update %d, get_record %d, delete_by %d)\n",
			t.Name, len(t.Ops), counts[gen.KindGetBy], counts[gen.KindUpdate], counts[gen.KindGetRecord], counts[gen.KindDeleteBy])
	}
	if err := sql.Generate(context.Background(), graph); err != nil {
		log.Fatalf("generate: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n%s:\n", dir)
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		fmt.Printf("  %-24s %6d bytes\n", e.Name(), info.Size())
	}
	content, err := os.ReadFile(filepath.Join(dir, *show))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n%s\n", content)
}

// sampleRecords returns a User keyed by a UUID and a Car without a key.
func sampleRecords() ([]*schema.Record, error) {
	user, err := schema.NewRecord("User",
		schema.NewField("ID", schema.Named("github.com/google/uuid", "UUID")),
		schema.NewField("Name", schema.Builtin("string")),
		schema.NewField("Age", schema.Builtin("int").Ptr()),
	)
	if err != nil {
		return nil, err
	}
	car, err := schema.NewRecord("Car",
		schema.NewField("Model", schema.Builtin("string")),
		schema.NewField("RegisteredAt", schema.Named("time", "Time")),
	)
	if err != nil {
		return nil, err
	}
	return []*schema.Record{user, car}, nil
}

func specs(ops []*gen.Operation) []gen.OperationSpec {
	out := make([]gen.OperationSpec, len(ops))
	for i, op := range ops {
		out[i] = op.OperationSpec
	}
	return out
}
