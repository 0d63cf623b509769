package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noahjb27/berlin-mapping-application/network"
	"github.com/noahjb27/berlin-mapping-application/render"
)

const (
	msgNoYear         = "No year specified"
	msgInvalidYear    = "Invalid year format"
	msgUnavailable    = "graph data unavailable"
	contentGeoJSON    = "application/geo+json"
	contentHTMLUTF8   = "text/html; charset=utf-8"
	statusHealthy     = "healthy"
	statusUnavailable = "unavailable"
)

// parseQuery reads the year and type parameters. When it returns false the 400
// response has already been written.
func parseQuery(c *gin.Context, yearRequired bool) (network.Query, bool) {
	q := network.Query{Type: network.NormalizeType(c.Query("type"))}

	raw := c.Query("year")
	if raw == "" {
		if yearRequired {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgNoYear})
			return q, false
		}
		q.AnyYear = true
		return q, true
	}

	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidYear})
		return q, false
	}
	q.Year = year
	return q, true
}

// selectGraph resolves the query to a subgraph, answering 500 on failure.
func (s *Server) selectGraph(c *gin.Context, yearRequired bool) (*network.Graph, network.Query, bool) {
	q, ok := parseQuery(c, yearRequired)
	if !ok {
		return nil, q, false
	}
	g, err := s.subgraph(q)
	if err != nil {
		s.fail(c, err)
		return nil, q, false
	}
	return g, q, true
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("graph data unavailable",
		zap.String("request_id", requestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgUnavailable})
}

func (s *Server) handleGraph(c *gin.Context) {
	g, _, ok := s.selectGraph(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, network.NodeLink(g))
}

func (s *Server) handleNodes(c *gin.Context) {
	g, _, ok := s.selectGraph(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, network.NodeEntries(g))
}

func (s *Server) handleEdges(c *gin.Context) {
	g, _, ok := s.selectGraph(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, network.EdgeEntries(g))
}

func (s *Server) handleYears(c *gin.Context) {
	g, err := s.source.Graph()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": g.Years()})
}

func (s *Server) handleGeoJSON(c *gin.Context) {
	g, _, ok := s.selectGraph(c, true)
	if !ok {
		return
	}
	data, err := json.Marshal(render.GeoJSON(g))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentGeoJSON, data)
}

func (s *Server) handleChart(c *gin.Context) {
	g, q, ok := s.selectGraph(c, true)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.Chart(&buf, g, chartTitle(q)); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentHTMLUTF8, buf.Bytes())
}

func chartTitle(q network.Query) string {
	title := fmt.Sprintf("Berlin transit network %d", q.Year)
	if q.Type != "" {
		title += " (" + q.Type + ")"
	}
	return title
}

// handleHealth reports on the graph already in memory and never triggers a load.
func (s *Server) handleHealth(c *gin.Context) {
	g, ok := s.source.Loaded()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusUnavailable})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusHealthy,
		"nodes":  len(g.Nodes),
		"edges":  len(g.Edges),
	})
}
