package network

import (
	"sort"
)

// Node represents a station in the transit network
type Node struct {
	ID     string     // Unique identifier for the station
	X      float64    // Easting in the source projection
	Y      float64    // Northing in the source projection
	Placed bool       // Both coordinates were present
	Years  YearSet    // Years in which the station is active
	Type   string     // Station type, e.g. u-bahn, s-bahn, bus, strassenbahn
	Label  string     // Display label
	Attrs  Attributes // Every source attribute except the id
}

// Edge represents a connection between two stations, active in a single year
type Edge struct {
	Source  string     // ID of the first station
	Target  string     // ID of the second station
	Year    int        // Year in which the connection is active
	HasYear bool       // False when the source year could not be parsed
	Type    string     // Connection type
	Attrs   Attributes // Every source attribute except source and target
}

// Graph holds stations in load order and connections in load order.
// Edges may reference stations that are not present; they are dropped on selection.
type Graph struct {
	Nodes []Node
	Edges []Edge
	index map[string]int
}

func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
		index: make(map[string]int),
	}
}

// AddNode appends n, or replaces the node with the same ID in place.
// It reports whether an existing node was replaced.
func (g *Graph) AddNode(n Node) bool {
	if g.index == nil {
		g.reindex()
	}
	if i, ok := g.index[n.ID]; ok {
		g.Nodes[i] = n
		return true
	}
	g.index[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	return false
}

func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

func (g *Graph) Node(id string) (Node, bool) {
	if g.index == nil {
		g.reindex()
	}
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// DanglingEdges counts edges with at least one endpoint missing from the graph.
func (g *Graph) DanglingEdges() int {
	n := 0
	for _, e := range g.Edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			n++
		}
	}
	return n
}

// Years returns every year a node or an edge is tagged with, ascending.
func (g *Graph) Years() []int {
	seen := make(map[int]struct{})
	for _, n := range g.Nodes {
		for _, y := range n.Years {
			seen[y] = struct{}{}
		}
	}
	for _, e := range g.Edges {
		if e.HasYear {
			seen[e.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.index[n.ID] = i
	}
}
