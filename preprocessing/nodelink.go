package preprocessing

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/noahjb27/berlin-mapping-application/network"
)

// nodeLinkFile accepts both the networkx layout ({"nodes", "links"|"edges"}) and the
// wrapped layout ({"graph": {"nodes", "links"}}).
type nodeLinkFile struct {
	Nodes []network.Attributes `json:"nodes"`
	Links []network.Attributes `json:"links"`
	Edges []network.Attributes `json:"edges"`
	Graph json.RawMessage      `json:"graph"`
}

// DecodeNodeLink reads a node-link JSON graph.
func DecodeNodeLink(r io.Reader) (*network.Graph, error) {
	var file nodeLinkFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "parse node-link JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parse node-link JSON: unexpected data after the document")
	}

	if file.Nodes == nil && len(file.Graph) > 0 && file.Graph[0] == '{' {
		var inner nodeLinkFile
		if err := json.Unmarshal(file.Graph, &inner); err != nil {
			return nil, errors.Wrap(err, "parse wrapped graph")
		}
		if inner.Nodes != nil {
			file = inner
		}
	}

	if file.Nodes == nil {
		return nil, errors.Wrap(ErrNotNodeLink, "no nodes list")
	}

	links := file.Links
	if links == nil {
		links = file.Edges
	}

	g := network.NewGraph()
	for i, attrs := range file.Nodes {
		id, err := convertID(attrs[network.AttrID])
		if err != nil {
			return nil, errors.Wrapf(err, "node %d", i)
		}
		g.AddNode(network.NewNode(id, attrs))
	}

	for i, attrs := range links {
		source, err := convertID(attrs[network.AttrSource])
		if err != nil {
			return nil, errors.Wrapf(err, "link %d source", i)
		}
		target, err := convertID(attrs[network.AttrTarget])
		if err != nil {
			return nil, errors.Wrapf(err, "link %d target", i)
		}
		g.AddEdge(network.NewEdge(source, target, attrs))
	}

	return g, nil
}

// convertID accepts string and numeric identifiers.
func convertID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("missing identifier")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", errors.Wrap(err, "decode identifier")
	}
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", errors.New("empty identifier")
		}
		return id, nil
	case json.Number:
		return id.String(), nil
	default:
		return "", errors.Errorf("unsupported identifier type %T", v)
	}
}
