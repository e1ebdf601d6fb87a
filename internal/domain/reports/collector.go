package reports

import (
	"regexp"
	"strings"
)

// Collector rows use the moniker syntax "Name[^ExcludeA;ExcludeB]" in a
// source category, e.g. a budget line "Food:Regular[^Coffee]". The row is
// named by the path with the moniker stripped ("Food:Regular") and claims
// any item under the parent path ("Food") whose next segment is not in the
// exclusion list. This lets one budget line absorb "everything in this
// category not itemized elsewhere".
var collectorPattern = regexp.MustCompile(`^(.+)\[\^(.+)\]$`)

// collector is the parsed form, resolved once at build time rather than
// re-matching the moniker per item.
type collector struct {
	rowID    string          // UniqueID of the collector's row
	prefix   []string        // claim prefix: the collector path minus its last segment
	excluded map[string]bool // next-segment tokens the collector must not claim
}

// parseCollector splits a category into its plain path and, when the
// moniker is present, the parsed collector. The returned path never
// contains the moniker.
func parseCollector(category string) (string, *collector) {
	m := collectorPattern.FindStringSubmatch(category)
	if m == nil {
		return category, nil
	}

	path := m[1]
	segments := splitCategory(path)

	excluded := make(map[string]bool)
	for _, tok := range strings.Split(m[2], ";") {
		if tok = strings.TrimSpace(tok); tok != "" {
			excluded[tok] = true
		}
	}

	return path, &collector{
		rowID:    path,
		prefix:   segments[:len(segments)-1],
		excluded: excluded,
	}
}

// claims reports whether the collector claims an item with the given
// category segments: the segments must extend the claim prefix and the
// segment at the collector's own depth must not be excluded.
func (c *collector) claims(segments []string) bool {
	if len(segments) < len(c.prefix) {
		return false
	}
	for i, p := range c.prefix {
		if segments[i] != p {
			return false
		}
	}
	if len(segments) > len(c.prefix) && c.excluded[segments[len(c.prefix)]] {
		return false
	}
	return true
}

// splitCategory splits a colon-delimited category path into segments,
// dropping empty ones. A blank category yields nil.
func splitCategory(category string) []string {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}
	parts := strings.Split(category, ":")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
