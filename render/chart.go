package render

import (
	"io"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/noahjb27/berlin-mapping-application/network"
)

// OtherType is the legend entry for stations without a known type.
const OtherType = "other"

// TypeColors are the legend colors of the Berlin transit map.
var TypeColors = map[string]string{
	"u-bahn":       "#003688",
	"s-bahn":       "#006F35",
	"bus":          "#FF4900",
	"strassenbahn": "#D82020",
	OtherType:      "#7C7C7C",
}

// TypeColor returns the legend color for a station type.
func TypeColor(t string) string {
	if c, ok := TypeColors[strings.ToLower(t)]; ok {
		return c
	}
	return TypeColors[OtherType]
}

// Chart writes an HTML page drawing g at its station coordinates, one legend
// category per station type. Stations without coordinates are not drawn.
func Chart(w io.Writer, g *network.Graph, title string) error {
	return stationGraph(g, title).Render(w)
}

func stationGraph(g *network.Graph, title string) *charts.Graph {
	if g == nil {
		g = network.NewGraph()
	}

	names := categoryNames(g)
	index := make(map[string]int, len(names))
	categories := make([]*opts.GraphCategory, 0, len(names))
	for i, name := range names {
		index[name] = i
		categories = append(categories, &opts.GraphCategory{
			Name:      name,
			ItemStyle: &opts.ItemStyle{Color: TypeColor(name)},
		})
	}

	nodes := make([]opts.GraphNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !n.Placed {
			continue
		}
		nodes = append(nodes, opts.GraphNode{
			Name: n.ID,
			X:    float32(n.X),
			// screen y grows downwards, northing grows upwards
			Y:          float32(-n.Y),
			Category:   index[category(n)],
			SymbolSize: 6,
		})
	}

	links := make([]opts.GraphLink, 0, len(g.Edges))
	for _, e := range g.Edges {
		if !placed(g, e.Source) || !placed(g, e.Target) {
			continue
		}
		links = append(links, opts.GraphLink{Source: e.Source, Target: e.Target})
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	graph.AddSeries(
		"stations",
		nodes,
		links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:     "none",
			Roam:       opts.Bool(true),
			Categories: categories,
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
	)
	return graph
}

func placed(g *network.Graph, id string) bool {
	n, ok := g.Node(id)
	return ok && n.Placed
}

func category(n network.Node) string {
	t := strings.ToLower(strings.TrimSpace(n.Type))
	if t == "" {
		return OtherType
	}
	return t
}

// categoryNames lists the types of the drawn stations, known types first in legend order.
func categoryNames(g *network.Graph) []string {
	seen := map[string]bool{}
	for _, n := range g.Nodes {
		if !n.Placed {
			continue
		}
		seen[category(n)] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := legendRank(names[i]), legendRank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

var legendOrder = []string{"u-bahn", "s-bahn", "strassenbahn", "bus"}

func legendRank(name string) int {
	for i, known := range legendOrder {
		if name == known {
			return i
		}
	}
	return len(legendOrder)
}
