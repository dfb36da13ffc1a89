package deps

import (
	"context"
)

// Fetcher retrieves the declared direct dependencies of a package from the
// distribution server, in manifest order.
type Fetcher interface {
	// Dependencies returns the dependency names declared in pkg's manifest.
	Dependencies(ctx context.Context, pkg *Package) ([]string, error)
}

// Node is one position in the resolved dependency tree: a coordinate plus
// its direct dependencies in manifest order.
//
// The underlying relation may be a DAG, but the resolved result is a tree: a
// package reachable by more than one path is fully expanded only at its
// first depth-first occurrence, and later occurrences keep an empty Deps
// slice. Renderers are expected to preserve these stub duplicates.
type Node struct {
	Pkg  *Package
	Deps []*Node
}

// Count returns the number of tree positions, counting stub duplicates.
func (n *Node) Count() int {
	total := 1
	for _, dep := range n.Deps {
		total += dep.Count()
	}
	return total
}

// Options configures dependency resolution behavior.
type Options struct {
	Logger func(string, ...any) // Progress/diagnostic callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Resolver expands the transitive dependencies of a package, one manifest
// fetch at a time, in depth-first declaration order.
type Resolver struct {
	index   Index
	baseURL string
	fetcher Fetcher
}

// NewResolver creates a Resolver over the given index. Coordinates it
// constructs are rooted at baseURL.
func NewResolver(index Index, baseURL string, fetcher Fetcher) *Resolver {
	return &Resolver{index: index, baseURL: baseURL, fetcher: fetcher}
}

// Resolve builds the dependency tree rooted at the named package.
//
// Every declared dependency becomes a child node so the rendered graph shows
// the edge, but each distinct package name is fetched and expanded at most
// once per call: names already expanded stay as empty-children stubs. That
// revisit policy is what bounds the traversal on cyclic or diamond-shaped
// relations.
//
// The first lookup or fetch failure aborts the run; no partial tree is
// returned. The visited set is created fresh for each call, so a Resolver
// can be reused across runs.
func (r *Resolver) Resolve(ctx context.Context, name string, opts Options) (*Node, error) {
	opts = opts.WithDefaults()

	pkg, err := r.index.Package(name, r.baseURL)
	if err != nil {
		return nil, err
	}
	root := &Node{Pkg: pkg}

	visited := make(map[string]bool)

	// Explicit work stack instead of call-stack recursion: dependency depth
	// is remote-controlled input. Children are pushed in reverse declaration
	// order so the first-declared dependency is always expanded next, which
	// keeps the traversal identical to a depth-first recursive walk.
	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// A name expanded earlier in the traversal stays a stub here.
		if visited[node.Pkg.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		names, err := r.fetcher.Dependencies(ctx, node.Pkg)
		if err != nil {
			return nil, err
		}
		opts.Logger("expanded %s (%d dependencies)", node.Pkg.Name, len(names))

		for _, dep := range names {
			child, err := r.index.Package(dep, r.baseURL)
			if err != nil {
				return nil, err
			}
			node.Deps = append(node.Deps, &Node{Pkg: child})
		}
		visited[node.Pkg.Name] = true

		for i := len(node.Deps) - 1; i >= 0; i-- {
			stack = append(stack, node.Deps[i])
		}
	}

	return root, nil
}
