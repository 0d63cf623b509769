package network

import (
	"strings"
)

// Query selects part of a graph. AnyYear disables the year test; an empty Type disables
// the type test. Query is comparable and can be used as a map or cache key.
type Query struct {
	Year    int
	AnyYear bool
	Type    string
}

// NormalizeType maps the "no filter" spellings sent by clients to the empty string.
func NormalizeType(t string) string {
	t = strings.TrimSpace(t)
	if strings.EqualFold(t, "all") {
		return ""
	}
	return strings.ToLower(t)
}

// Extract returns the subgraph of stations active in year and the connections of that
// year whose endpoints are both kept.
func Extract(g *Graph, year int) *Graph {
	return Select(g, Query{Year: year})
}

// Select builds a new graph holding the nodes matching q and the edges matching q whose
// two endpoints were kept. Edges with a missing endpoint are dropped. The result shares
// no mutable state with g.
func Select(g *Graph, q Query) *Graph {
	out := NewGraph()
	if g == nil {
		return out
	}

	for _, n := range g.Nodes {
		if !q.AnyYear && !n.Years.Contains(q.Year) {
			continue
		}
		if q.Type != "" && !strings.EqualFold(n.Type, q.Type) {
			continue
		}
		out.AddNode(cloneNode(n))
	}

	for _, e := range g.Edges {
		if !q.AnyYear && (!e.HasYear || e.Year != q.Year) {
			continue
		}
		if q.Type != "" && e.Type != "" && !strings.EqualFold(e.Type, q.Type) {
			continue
		}
		if !out.HasNode(e.Source) || !out.HasNode(e.Target) {
			continue
		}
		e.Attrs = e.Attrs.Clone()
		out.AddEdge(e)
	}

	return out
}

func cloneNode(n Node) Node {
	n.Years = append(YearSet{}, n.Years...)
	n.Attrs = n.Attrs.Clone()
	return n
}
