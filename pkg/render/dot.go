// Package render serializes resolved dependency trees as Graphviz DOT and
// rasterizes the result.
package render

import (
	"bytes"
	"fmt"

	"github.com/eupsforge/depview/pkg/deps"
)

// nodeTemplate declares one record-shaped node keyed by package name, with
// head and end ports for edge attachment. A package sitting at several tree
// positions is declared once per position; viewers deduplicate by label.
const nodeTemplate = "  \"%s\" [label = \"{<head> %s | <end>}\"\n     shape = \"record\"];\n"

// edgeTemplate connects a package's head port to its dependency's end port.
const edgeTemplate = "  \"%s\":head -> \"%s\":end [id = 0];\n"

// ToDOT serializes the dependency tree rooted at root as a directed graph in
// DOT format, with the given title and a bottom-to-top rank direction.
//
// Emission order is deterministic: for each node, first a declaration and an
// edge for every direct dependency in manifest order, then each dependency's
// own subtree in the same order. No node or edge deduplication is performed.
// The output ends with a newline after the closing brace.
func ToDOT(root *deps.Node, title string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph \"%s\" {\n", title)
	buf.WriteString(" graph [rankdir = \"BT\"];\n")

	fmt.Fprintf(&buf, nodeTemplate, root.Pkg.Name, root.Pkg.Name)
	writeDeps(&buf, root)

	buf.WriteString("}\n")
	return buf.String()
}

func writeDeps(buf *bytes.Buffer, node *deps.Node) {
	for _, dep := range node.Deps {
		fmt.Fprintf(buf, nodeTemplate, dep.Pkg.Name, dep.Pkg.Name)
		fmt.Fprintf(buf, edgeTemplate, node.Pkg.Name, dep.Pkg.Name)
	}
	for _, dep := range node.Deps {
		writeDeps(buf, dep)
	}
}
