// Package content bundles the default case catalog so the binaries run without external files.
package content

import (
	"bytes"
	_ "embed"
	"github.com/myrjola/dvdcluedo/internal/catalog"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/scoring"
)

//go:embed cases.yaml
var casesYAML []byte

//go:embed solutions.txt
var solutionsTxt []byte

// Default parses the bundled catalog.
func Default() (*models.Catalog, error) {
	c, err := catalog.Parse(casesYAML)
	if err != nil {
		return nil, errors.Wrap(err, "parse bundled catalog")
	}
	return c, nil
}

// Load reads the catalog at path, falling back to the bundled catalog when path is empty.
func Load(path string) (*models.Catalog, error) {
	if path == "" {
		return Default()
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return c, nil
}

// Solutions parses the bundled solutions, one line per bundled case.
func Solutions() (scoring.Table, error) {
	table, err := scoring.ParseSolutions(bytes.NewReader(solutionsTxt))
	if err != nil {
		return nil, errors.Wrap(err, "parse bundled solutions")
	}
	return table, nil
}
