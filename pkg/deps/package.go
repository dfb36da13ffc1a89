// Package deps models EUPS package coordinates and resolves their
// transitive build dependencies from a distribution server.
package deps

import (
	"github.com/eupsforge/depview/pkg/errors"
)

// DefaultArchitecture is the index value for architecture-independent
// packages. It is omitted from resource URLs.
const DefaultArchitecture = "generic"

// Package identifies one resolved package coordinate on a distribution
// server. Coordinates are constructed once per distinct package name during
// resolution and are immutable afterwards.
type Package struct {
	Name         string // Unique key within an index
	Version      string
	Architecture string // DefaultArchitecture when the index does not pin one
	Directory    string // Optional subdirectory (e.g. "external"), empty for top-level
	BaseURL      string // Root of the remote repository
}

// URL derives the package's resource location from its coordinate fields.
// It is recomputed on every call so the fields stay the single source of
// truth and the URL can never go stale.
func (p *Package) URL() string {
	url := p.BaseURL
	if p.Directory != "" {
		url += "/" + p.Directory
	}
	url += "/" + p.Name + "/" + p.Version
	if p.Architecture != DefaultArchitecture {
		url += "/" + p.Architecture
	}
	return url
}

// Entry holds the index fields recorded for one package name.
type Entry struct {
	Architecture string
	Version      string
	Directory    string // Empty for top-level packages
}

// Index maps package names to their resolved coordinates as parsed from the
// distribution's package list. A later line for the same name overwrites the
// earlier one, so lookups always reflect the last occurrence in the source
// document. Once built, an Index is read-only.
type Index map[string]Entry

// Has reports whether name is present in the index.
func (idx Index) Has(name string) bool {
	_, ok := idx[name]
	return ok
}

// Package resolves name against the index, returning a coordinate rooted at
// baseURL. Unknown names fail with ErrCodePackageNotFound.
func (idx Index) Package(name, baseURL string) (*Package, error) {
	e, ok := idx[name]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %q is not in the index", name)
	}
	return &Package{
		Name:         name,
		Version:      e.Version,
		Architecture: e.Architecture,
		Directory:    e.Directory,
		BaseURL:      baseURL,
	}, nil
}
