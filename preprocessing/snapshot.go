package preprocessing

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"

	"github.com/noahjb27/berlin-mapping-application/network"
)

const snapshotVersion = 1

// snapshot is the gob layout. Derived fields are rebuilt on read.
type snapshot struct {
	Version int
	Nodes   []snapshotNode
	Edges   []snapshotEdge
}

type snapshotNode struct {
	ID    string
	Attrs network.Attributes
}

type snapshotEdge struct {
	Source string
	Target string
	Attrs  network.Attributes
}

// WriteSnapshot gob-encodes g.
func WriteSnapshot(w io.Writer, g *network.Graph) error {
	snap := snapshot{
		Version: snapshotVersion,
		Nodes:   make([]snapshotNode, 0, len(g.Nodes)),
		Edges:   make([]snapshotEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		snap.Nodes = append(snap.Nodes, snapshotNode{ID: n.ID, Attrs: n.Attrs})
	}
	for _, e := range g.Edges {
		snap.Edges = append(snap.Edges, snapshotEdge{Source: e.Source, Target: e.Target, Attrs: e.Attrs})
	}
	if err := gob.NewEncoder(w).Encode(snap); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return nil
}

// ReadSnapshot decodes a graph written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*network.Graph, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	if snap.Version != snapshotVersion {
		return nil, errors.Wrapf(ErrSnapshotVersion, "got %d, want %d", snap.Version, snapshotVersion)
	}

	g := network.NewGraph()
	for _, n := range snap.Nodes {
		g.AddNode(network.NewNode(n.ID, n.Attrs))
	}
	for _, e := range snap.Edges {
		g.AddEdge(network.NewEdge(e.Source, e.Target, e.Attrs))
	}
	return g, nil
}
