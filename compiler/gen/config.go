package gen

import (
	"path/filepath"
	"runtime"
	"slices"
)

// DefaultHeader is the header comment of generated Go files.
const DefaultHeader = "Code generated by ease. DO NOT EDIT."

// Config holds the global codegen configuration.
type Config struct {
	// Target is the directory the generated files are written to. The
	// generated code refers to the records unqualified, so Target is
	// usually the directory declaring them.
	Target string

	// Package is the name of the generated package. Defaults to the base
	// name of Target.
	Package string

	// Header is the comment at the top of every generated Go file.
	Header string

	// Naming selects the spelling of GetBy and Update operation names.
	Naming Naming

	// Features holds the enabled feature flags. Nil enables DefaultFeatures.
	Features []Feature

	// Workers limits the number of files rendered in parallel.
	Workers int
}

// FeatureEnabled reports if the given feature name is enabled.
func (c Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := FeatureByName(name); !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	features := c.Features
	if features == nil {
		features = DefaultFeatures()
	}
	return slices.ContainsFunc(features, func(f Feature) bool {
		return f.Name == name
	}), nil
}

// PackageName returns the name of the generated package.
func (c Config) PackageName() string {
	if c.Package != "" {
		return c.Package
	}
	if c.Target == "" {
		return ""
	}
	abs, err := filepath.Abs(c.Target)
	if err != nil {
		return filepath.Base(c.Target)
	}
	return filepath.Base(abs)
}

func (c Config) header() string {
	if c.Header != "" {
		return c.Header
	}
	return DefaultHeader
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
