package eups

import (
	"strings"

	"github.com/eupsforge/depview/pkg/deps"
)

// indexTitlePrefix marks the optional title line of a package list document.
const indexTitlePrefix = "EUPS distribution"

// mergeDirective opens the only manifest lines that declare a dependency.
const mergeDirective = ">merge"

// pkgKey introduces the dependency name on a merge line.
const pkgKey = ">merge pkg="

// ParseIndex parses the raw lines of a package list document into an Index.
//
// A title line beginning with "EUPS distribution" and lines beginning with
// "#" are skipped. Data lines carry whitespace-separated tokens:
//
//	name architecture version directory
//	name architecture version
//
// Three-token lines leave the directory empty. Any other token count is a
// malformed line: it is skipped and reported through logf, never fatal. On a
// duplicate name the later line wins.
//
// logf may be nil to discard diagnostics.
func ParseIndex(lines []string, logf func(string, ...any)) deps.Index {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	if len(lines) > 0 && strings.HasPrefix(lines[0], indexTitlePrefix) {
		lines = lines[1:]
	}

	index := make(deps.Index)
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		switch len(tokens) {
		case 4:
			index[tokens[0]] = deps.Entry{Architecture: tokens[1], Version: tokens[2], Directory: tokens[3]}
		case 3:
			index[tokens[0]] = deps.Entry{Architecture: tokens[1], Version: tokens[2]}
		default:
			logf("skipped malformed index line: %q", strings.TrimSpace(line))
		}
	}
	return index
}

// ParseManifest parses the raw lines of one package's dependency manifest
// and returns the declared dependency names, order and duplicates preserved.
//
// Manifests are line-oriented directive files of the form
//
//	>merge pkg=name
//	...
//	>self
//
// Only ">merge pkg=" lines carry meaning here; every other directive is
// ignored. The dependency name is the token following "pkg=" up to the next
// whitespace boundary, so trailing fields on a merge line are discarded.
// Merge lines yielding an empty name are dropped silently.
func ParseManifest(lines []string) []string {
	var names []string
	for _, line := range lines {
		if !strings.HasPrefix(line, mergeDirective) {
			continue
		}

		_, rest, found := strings.Cut(strings.TrimSpace(line), pkgKey)
		if !found {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
