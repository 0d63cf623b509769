package network

// Attribute names read from the source data.
const (
	AttrID     = "id"
	AttrSource = "source"
	AttrTarget = "target"
	AttrYear   = "year"
	AttrX      = "x"
	AttrY      = "y"
)

// NewNode derives the typed fields of a station from its attributes. The id attribute
// is removed from attrs if present.
func NewNode(id string, attrs Attributes) Node {
	if attrs == nil {
		attrs = Attributes{}
	}
	delete(attrs, AttrID)
	x, okX := attrs.Float(AttrX)
	y, okY := attrs.Float(AttrY)
	return Node{
		ID:     id,
		X:      x,
		Y:      y,
		Placed: okX && okY,
		Years:  ParseYearSet(attrs[AttrYear]),
		Type:   firstString(attrs, "type", "station_type"),
		Label:  firstString(attrs, "node_label", "label", "name"),
		Attrs:  attrs,
	}
}

// NewEdge derives the typed fields of a connection from its attributes. The source and
// target attributes are removed from attrs if present.
func NewEdge(source, target string, attrs Attributes) Edge {
	if attrs == nil {
		attrs = Attributes{}
	}
	delete(attrs, AttrSource)
	delete(attrs, AttrTarget)
	year, ok := ParseEdgeYear(attrs[AttrYear])
	return Edge{
		Source:  source,
		Target:  target,
		Year:    year,
		HasYear: ok,
		Type:    firstString(attrs, "edge_type", "type"),
		Attrs:   attrs,
	}
}
