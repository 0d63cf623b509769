package network

import (
	"bytes"
	"encoding/json"
)

// Document is the node-link form of a graph.
type Document struct {
	Nodes []NodeEntry `json:"nodes"`
	Edges []EdgeEntry `json:"edges"`
}

// NodeEntry encodes as {"id": ..., <attributes sorted by name>}.
type NodeEntry struct {
	ID    string
	Attrs Attributes
}

// EdgeEntry encodes as {"source": ..., "target": ..., <attributes sorted by name>}.
type EdgeEntry struct {
	Source string
	Target string
	Attrs  Attributes
}

// NodeLink converts g into its node-link document, keeping graph order.
func NodeLink(g *Graph) Document {
	doc := Document{
		Nodes: NodeEntries(g),
		Edges: EdgeEntries(g),
	}
	return doc
}

func NodeEntries(g *Graph) []NodeEntry {
	if g == nil {
		return []NodeEntry{}
	}
	entries := make([]NodeEntry, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		entries = append(entries, NodeEntry{ID: n.ID, Attrs: n.Attrs})
	}
	return entries
}

func EdgeEntries(g *Graph) []EdgeEntry {
	if g == nil {
		return []EdgeEntry{}
	}
	entries := make([]EdgeEntry, 0, len(g.Edges))
	for _, e := range g.Edges {
		entries = append(entries, EdgeEntry{Source: e.Source, Target: e.Target, Attrs: e.Attrs})
	}
	return entries
}

func (n NodeEntry) MarshalJSON() ([]byte, error) {
	return encodeObject([]string{AttrID}, []string{n.ID}, n.Attrs)
}

func (e EdgeEntry) MarshalJSON() ([]byte, error) {
	return encodeObject([]string{AttrSource, AttrTarget}, []string{e.Source, e.Target}, e.Attrs)
}

// encodeObject writes the leading string fields, then attrs in key order. Attributes
// named like a leading field are skipped.
func encodeObject(names, values []string, attrs Attributes) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	reserved := make(map[string]struct{}, len(names))
	for i, name := range names {
		reserved[name] = struct{}{}
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, name, values[i]); err != nil {
			return nil, err
		}
	}
	for _, k := range attrs.Keys() {
		if _, skip := reserved[k]; skip {
			continue
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if raw := attrs[k]; len(raw) > 0 {
			buf.Write(raw)
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, name, value string) error {
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	val, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}
