// Package refdata loads the tier ladder and bundle catalog from tabular
// sources into an immutable Reference that is built once at startup and
// shared read-only by every calculation.
package refdata

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gear-cost/core/catalog"
	"gear-cost/core/ladder"
	"gear-cost/core/types"
	"gear-cost/internal/errors"
)

//go:embed data/gear_data.csv data/packages.csv
var embedded embed.FS

const (
	defaultLadderFile  = "data/gear_data.csv"
	defaultCatalogFile = "data/packages.csv"

	// EmbeddedSource names data compiled into the binary
	EmbeddedSource = "embedded"
)

// Source records where reference data came from
type Source struct {
	Ladder  string `json:"ladder"`
	Catalog string `json:"catalog"`
}

// Reference is the read-only context every calculation runs against
type Reference struct {
	Ladder  *ladder.Ladder
	Catalog *catalog.Catalog
	Source  Source
}

// New pairs an already built ladder and catalog
func New(l *ladder.Ladder, c *catalog.Catalog) (*Reference, error) {
	if l == nil {
		return nil, errors.Input("reference data has no tier ladder")
	}
	if c == nil {
		return nil, errors.Input("reference data has no bundle catalog")
	}
	return &Reference{Ladder: l, Catalog: c}, nil
}

// Warnings lists suspicious but loadable data: catalog rule violations and
// bundle resources that no tier costs
func (r *Reference) Warnings() []string {
	var out []string
	for _, err := range r.Catalog.Validate(catalog.DefaultValidationRules()) {
		out = append(out, err.Error())
	}

	costed := make(map[types.ResourceKind]bool)
	for _, kind := range r.Ladder.Resources() {
		costed[kind] = true
	}
	for _, kind := range r.Catalog.Resources() {
		if !costed[kind] {
			out = append(out, fmt.Sprintf("%s is granted by bundles but costed by no tier", kind))
		}
	}
	return out
}

// Default returns the reference data embedded in the binary
func Default() (*Reference, error) {
	return Load("", "")
}

// Load reads the ladder and catalog from the given files. An empty path
// selects the embedded data for that table.
func Load(ladderPath, catalogPath string) (*Reference, error) {
	l, err := LoadLadder(ladderPath)
	if err != nil {
		return nil, err
	}
	c, err := LoadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}

	ref, err := New(l, c)
	if err != nil {
		return nil, err
	}
	ref.Source = Source{Ladder: sourceName(ladderPath), Catalog: sourceName(catalogPath)}
	return ref, nil
}

// LoadLadder reads a tier ladder from a .csv, .yaml/.yml or .hcl file
func LoadLadder(path string) (*ladder.Ladder, error) {
	name, data, err := readSource(path, defaultLadderFile)
	if err != nil {
		return nil, err
	}

	var tiers []ladder.Tier
	switch formatOf(name) {
	case formatCSV:
		tiers, err = ParseLadderCSV(bytes.NewReader(data))
	case formatYAML:
		tiers, err = ParseLadderYAML(data)
	case formatHCL:
		tiers, err = ParseLadderHCL(name, data)
	default:
		return nil, errors.NotSupported("tier ladder format " + filepath.Ext(name))
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeParsing, err, "read tier ladder %s", name)
	}

	l, err := ladder.New(tiers)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeParsing, err, "build tier ladder from %s", name)
	}
	return l, nil
}

// LoadCatalog reads a bundle catalog from a .csv, .yaml/.yml or .hcl file
func LoadCatalog(path string) (*catalog.Catalog, error) {
	name, data, err := readSource(path, defaultCatalogFile)
	if err != nil {
		return nil, err
	}

	var rows []catalog.Row
	switch formatOf(name) {
	case formatCSV:
		rows, err = ParseCatalogCSV(bytes.NewReader(data))
	case formatYAML:
		rows, err = ParseCatalogYAML(data)
	case formatHCL:
		rows, err = ParseCatalogHCL(name, data)
	default:
		return nil, errors.NotSupported("bundle catalog format " + filepath.Ext(name))
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeParsing, err, "read bundle catalog %s", name)
	}

	c, err := catalog.New(rows)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeParsing, err, "build bundle catalog from %s", name)
	}
	return c, nil
}

type format int

const (
	formatUnknown format = iota
	formatCSV
	formatYAML
	formatHCL
)

func formatOf(name string) format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return formatCSV
	case ".yaml", ".yml":
		return formatYAML
	case ".hcl":
		return formatHCL
	default:
		return formatUnknown
	}
}

func readSource(path, fallback string) (string, []byte, error) {
	if path == "" {
		data, err := embedded.ReadFile(fallback)
		if err != nil {
			return "", nil, errors.Internal("read embedded "+fallback, err)
		}
		return fallback, data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, errors.NotFound("reference data file", path)
		}
		return "", nil, errors.Config("read "+path, err)
	}
	return path, data, nil
}

func sourceName(path string) string {
	if path == "" {
		return EmbeddedSource
	}
	return path
}
