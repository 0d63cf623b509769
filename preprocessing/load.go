package preprocessing

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/noahjb27/berlin-mapping-application/network"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported graph format")
	ErrDanglingEdges     = errors.New("edges reference missing nodes")
	ErrSnapshotVersion   = errors.New("unsupported snapshot version")
	ErrNotNodeLink       = errors.New("not a node-link graph")
)

// LoadGraph reads a graph from path: a node-link .json file, a .gob snapshot, or a
// directory of CSV tables.
func LoadGraph(path string) (*network.Graph, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open graph source")
	}
	if info.IsDir() {
		g, err := LoadTables(path)
		if err != nil {
			return nil, errors.Wrapf(err, "load tables from %s", path)
		}
		return g, nil
	}

	var decode func(f *os.File) (*network.Graph, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = func(f *os.File) (*network.Graph, error) { return DecodeNodeLink(f) }
	case ".gob":
		decode = func(f *os.File) (*network.Graph, error) { return ReadSnapshot(f) }
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open graph file")
	}
	defer file.Close()

	g, err := decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load graph from %s", path)
	}
	return g, nil
}
