package network

// YearSummary counts what a year's subgraph holds.
type YearSummary struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Summary describes a whole graph: totals, the extracted size of every year, and the
// number of stations per type.
type Summary struct {
	Nodes         int                 `json:"nodes"`
	Edges         int                 `json:"edges"`
	DanglingEdges int                 `json:"dangling_edges"`
	Years         map[int]YearSummary `json:"years"`
	Types         map[string]int      `json:"types"`
}

func Summarize(g *Graph) Summary {
	s := Summary{
		Years: map[int]YearSummary{},
		Types: map[string]int{},
	}
	if g == nil {
		return s
	}
	s.Nodes = len(g.Nodes)
	s.Edges = len(g.Edges)
	s.DanglingEdges = g.DanglingEdges()
	for _, n := range g.Nodes {
		s.Types[n.Type]++
	}
	for _, y := range g.Years() {
		sub := Extract(g, y)
		s.Years[y] = YearSummary{Nodes: len(sub.Nodes), Edges: len(sub.Edges)}
	}
	return s
}
