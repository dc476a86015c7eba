// Package gen derives and generates the operations of ease records.
//
// # Pipeline
//
// Generation is a one-way pipeline:
//
//	record declaration (compiler/load)
//	        ↓
//	   schema.Record
//	        ↓
//	   Enumerate: ordered []OperationSpec
//	        ↓
//	   Synthesize: names, parameters and docs ([]*Operation)
//	        ↓
//	   JenniferGenerator: <record>_ease.go (+ dialect and docs files)
//
// Enumerate is a pure function of the record fields and their order, so it
// can be tested without any code generation machinery:
//
//	ops, err := gen.Enumerate(post)
//	// GetBy(return=Title, filter=ID), Update(target=Title, filter=ID), ...
//
// # Naming
//
// Operation names follow fixed templates (get_<F>s_by_<G>, update_<F>s_by_<G>,
// get_by_<F>, delete_by_<F>, insert, get_all, delete_all). The Naming mode
// selects how F is pluralized. Go method names are the PascalCase form of the
// operation names (GetTitlesByID).
//
// # Error Handling
//
//   - schema.SchemaError: empty or unsupported records, colliding names
//   - ConfigError: configuration errors
//   - GenerationError: rendering or writing errors
//
// Schema errors surface from NewGraph, before any file is rendered.
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./models"),
//	    gen.WithNaming(gen.NamingPlural),
//	    gen.WithFeatures(gen.FeatureSQL, gen.FeatureDocs),
//	)
package gen
