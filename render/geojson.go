// Package render draws a station graph in formats meant for maps and browsers.
package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/noahjb27/berlin-mapping-application/network"
)

// GeoJSON converts g into a feature collection. Stations become points at their x/y
// coordinates and connections become two-point line strings. Stations without both
// coordinates are left out, as are connections with a missing or unplaced endpoint.
// The collection bbox covers every placed station.
func GeoJSON(g *network.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if g == nil {
		return fc
	}

	stations := make(orb.MultiPoint, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !n.Placed {
			continue
		}
		p := position(n)
		f := geojson.NewFeature(p)
		f.ID = n.ID
		f.Properties = properties(n.Attrs)
		f.Properties[network.AttrID] = n.ID
		fc.Append(f)
		stations = append(stations, p)
	}

	for _, e := range g.Edges {
		from, ok := g.Node(e.Source)
		if !ok || !from.Placed {
			continue
		}
		to, ok := g.Node(e.Target)
		if !ok || !to.Placed {
			continue
		}
		f := geojson.NewFeature(orb.LineString{position(from), position(to)})
		f.Properties = properties(e.Attrs)
		f.Properties[network.AttrSource] = e.Source
		f.Properties[network.AttrTarget] = e.Target
		fc.Append(f)
	}

	if len(stations) > 0 {
		fc.BBox = geojson.NewBBox(stations.Bound())
	}
	return fc
}

func position(n network.Node) orb.Point {
	return orb.Point{n.X, n.Y}
}

func properties(a network.Attributes) geojson.Properties {
	return geojson.Properties(a.Map())
}
