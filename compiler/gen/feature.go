package gen

import (
	"os"
	"path/filepath"
	"strings"
)

var (
	// FeatureSQL generates a sql.Table descriptor and a New<Record>SQLClient
	// constructor next to every record client.
	FeatureSQL = Feature{
		Name:        "sql",
		Default:     true,
		Description: "Generates the SQL table binding of each record",
		suffix:      "_ease_sql.go",
	}

	// FeatureDocs writes the plain-text documentation of the operations of
	// each record to <record>_ease.txt.
	FeatureDocs = Feature{
		Name:        "docs",
		Default:     false,
		Description: "Writes the plain-text documentation of each record's operations",
		suffix:      "_ease.txt",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureSQL,
		FeatureDocs,
	}
)

// A Feature of the ease codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// suffix of the per-record file written by the feature.
	suffix string
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}

// cleanup removes the files a disabled feature wrote in previous runs.
func (f Feature) cleanup(c *Config, records []string) error {
	for _, r := range records {
		path := filepath.Join(c.Target, strings.ToLower(r)+f.suffix)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
