// Command graph_index loads a graph the way the server does and writes a JSON summary
// of it: totals, per-year subgraph sizes and station types.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noahjb27/berlin-mapping-application/logging"
	"github.com/noahjb27/berlin-mapping-application/network"
	"github.com/noahjb27/berlin-mapping-application/preprocessing"
)

func main() {
	var path string
	var out string
	flag.StringVar(&path, "graph", "data/graph.json", "node-link JSON file, gob snapshot or CSV table directory")
	flag.StringVar(&out, "out", "-", "file to write the summary to, - for stdout")
	flag.Parse()

	logger, err := logging.New("info", "console")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("loading graph", zap.String("path", path))
	g, err := preprocessing.LoadGraph(path)
	if err != nil {
		logger.Fatal("failed to load graph", zap.Error(err))
	}
	summary := network.Summarize(g)

	var w io.Writer = os.Stdout
	if out != "-" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			logger.Fatal("failed to create output directory", zap.Error(err))
		}
		f, err := os.Create(out)
		if err != nil {
			logger.Fatal("failed to create output file", zap.String("out", out), zap.Error(err))
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&summary); err != nil {
		logger.Fatal("failed to write summary", zap.Error(err))
	}

	logger.Info("graph index written",
		zap.String("out", out),
		zap.Int("nodes", summary.Nodes),
		zap.Int("edges", summary.Edges),
		zap.Int("years", len(summary.Years)),
		zap.Int("dangling_edges", summary.DanglingEdges),
	)
}
