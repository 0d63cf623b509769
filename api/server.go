// Package api serves the station graph over HTTP.
package api

import (
	"github.com/bluele/gcache"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/noahjb27/berlin-mapping-application/network"
)

const defaultCacheSize = 64

// GraphSource provides the full graph. preprocessing.Store implements it.
type GraphSource interface {
	// Graph returns the graph, loading it if needed.
	Graph() (*network.Graph, error)
	// Loaded returns the graph only if it is already in memory.
	Loaded() (*network.Graph, bool)
}

type Options struct {
	// CacheSize bounds the number of cached subgraphs.
	CacheSize int
	// CORSOrigins lists the allowed origins. Empty or "*" allows all.
	CORSOrigins []string
}

type Server struct {
	source  GraphSource
	logger  *zap.Logger
	options Options

	// subgraphs maps a network.Query to its *network.Graph.
	subgraphs gcache.Cache
}

func NewServer(source GraphSource, options Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.CacheSize <= 0 {
		options.CacheSize = defaultCacheSize
	}
	s := &Server{
		source:  source,
		logger:  logger,
		options: options,
	}
	s.subgraphs = gcache.New(options.CacheSize).
		LRU().
		LoaderFunc(s.loadSubgraph).
		Build()
	return s
}

// loadSubgraph fills the cache. Errors are returned to the caller and not cached.
func (s *Server) loadSubgraph(key interface{}) (interface{}, error) {
	g, err := s.source.Graph()
	if err != nil {
		return nil, err
	}
	return network.Select(g, key.(network.Query)), nil
}

func (s *Server) subgraph(q network.Query) (*network.Graph, error) {
	v, err := s.subgraphs.Get(q)
	if err != nil {
		return nil, err
	}
	return v.(*network.Graph), nil
}

// Router builds the gin engine with every route and middleware installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.logger))
	r.Use(cors.New(s.corsConfig()))

	r.GET("/graph", s.handleGraph)
	r.GET("/graph/geojson", s.handleGeoJSON)
	r.GET("/graph/chart", s.handleChart)
	r.GET("/nodes", s.handleNodes)
	r.GET("/edges", s.handleEdges)
	r.GET("/years", s.handleYears)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}

	var origins []string
	for _, o := range s.options.CORSOrigins {
		if o == "*" {
			origins = nil
			break
		}
		origins = append(origins, o)
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}
