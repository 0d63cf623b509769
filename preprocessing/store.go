package preprocessing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/noahjb27/berlin-mapping-application/network"
)

// Store loads the graph once and serves it read-only for the life of the process.
// A failed load is not remembered; the next call tries again.
type Store struct {
	path   string
	strict bool
	logger *zap.Logger
	load   func(path string) (*network.Graph, error)

	mu    sync.Mutex
	graph atomic.Pointer[network.Graph]
}

// NewStore creates a store for the graph at path. In strict mode a graph with edges
// referencing missing nodes is rejected.
func NewStore(path string, strict bool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		strict: strict,
		logger: logger,
		load:   LoadGraph,
	}
}

// Graph returns the loaded graph, loading it first if needed.
func (s *Store) Graph() (*network.Graph, error) {
	if g := s.graph.Load(); g != nil {
		return g, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if g := s.graph.Load(); g != nil {
		return g, nil
	}

	start := time.Now()
	g, err := s.load(s.path)
	if err != nil {
		loadFailures.Inc()
		return nil, err
	}

	dangling := g.DanglingEdges()
	if dangling > 0 {
		if s.strict {
			loadFailures.Inc()
			return nil, errors.Wrapf(ErrDanglingEdges, "%d of %d edges in %s", dangling, len(g.Edges), s.path)
		}
		s.logger.Warn("graph has edges referencing missing nodes; they are never served",
			zap.String("path", s.path),
			zap.Int("dangling_edges", dangling),
		)
	}

	s.graph.Store(g)
	loadedNodes.Set(float64(len(g.Nodes)))
	loadedEdges.Set(float64(len(g.Edges)))
	s.logger.Info("loaded graph",
		zap.String("path", s.path),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
		zap.Ints("years", g.Years()),
		zap.Duration("load_duration", time.Since(start)),
	)
	return g, nil
}

// Loaded returns the graph without attempting a load.
func (s *Store) Loaded() (*network.Graph, bool) {
	g := s.graph.Load()
	return g, g != nil
}

// Preload loads the graph at start-up. The error is returned for logging only; the
// store keeps retrying on demand.
func (s *Store) Preload() error {
	_, err := s.Graph()
	return err
}
