package preprocessing

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/noahjb27/berlin-mapping-application/network"
)

// File names of the tabular export of the nodes and edges tables.
const (
	NodesTable = "nodes.csv"
	EdgesTable = "edges.csv"
)

// LoadTables builds a graph from a directory holding nodes.csv and edges.csv.
// Required columns: id in nodes.csv; source and target in edges.csv.
func LoadTables(dir string) (*network.Graph, error) {
	g := network.NewGraph()

	// 1) nodes.csv
	err := readTable(filepath.Join(dir, NodesTable), []string{network.AttrID}, func(line int, get func(string) string, attrs network.Attributes) error {
		id := strings.TrimSpace(get(network.AttrID))
		if id == "" {
			return errors.Errorf("%s line %d: empty id", NodesTable, line)
		}
		g.AddNode(network.NewNode(id, attrs))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2) edges.csv
	err = readTable(filepath.Join(dir, EdgesTable), []string{network.AttrSource, network.AttrTarget}, func(line int, get func(string) string, attrs network.Attributes) error {
		source := strings.TrimSpace(get(network.AttrSource))
		target := strings.TrimSpace(get(network.AttrTarget))
		if source == "" || target == "" {
			return errors.Errorf("%s line %d: empty source or target", EdgesTable, line)
		}
		g.AddEdge(network.NewEdge(source, target, attrs))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

func readTable(path string, required []string, each func(line int, get func(string) string, attrs network.Attributes) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", filepath.Base(path))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return errors.Wrapf(err, "read %s header", filepath.Base(path))
	}
	h := headerIndex(header)
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return errors.Errorf("%s: missing column %q", filepath.Base(path), col)
		}
	}

	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return errors.Wrapf(err, "read %s row", filepath.Base(path))
		}

		get := func(k string) string {
			i, ok := h[k]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		attrs := network.Attributes{}
		for col := range h {
			switch col {
			case network.AttrID, network.AttrSource, network.AttrTarget:
				continue
			}
			attrs[col] = cellValue(get(col))
		}
		if err := each(line, get, attrs); err != nil {
			return err
		}
	}
	return nil
}

func headerIndex(hdr []string) map[string]int {
	m := make(map[string]int, len(hdr))
	for i, k := range hdr {
		k = strings.TrimSpace(strings.TrimPrefix(k, "\ufeff"))
		if k == "" {
			continue
		}
		m[k] = i
	}
	return m
}

// cellValue turns a CSV cell into a JSON value: empty cells are null, JSON number
// literals stay numbers, everything else is a string.
func cellValue(cell string) json.RawMessage {
	s := strings.TrimSpace(cell)
	if s == "" {
		return json.RawMessage("null")
	}
	var n json.Number
	if s[0] != '"' && s != "null" && json.Unmarshal([]byte(s), &n) == nil {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(cell)
	return quoted
}
