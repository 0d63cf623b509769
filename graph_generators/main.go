// Command graph_generators converts a node-link JSON file or a nodes.csv/edges.csv
// directory into a gob snapshot the server loads without parsing.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/noahjb27/berlin-mapping-application/logging"
	"github.com/noahjb27/berlin-mapping-application/preprocessing"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./graph_generators <input.json|csv-dir> [output.gob]")
		os.Exit(1)
	}

	logger, err := logging.New("info", "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	inputPath := os.Args[1]
	outputPath := outputPathFor(inputPath)
	if len(os.Args) > 2 {
		outputPath = os.Args[2]
	}

	if err := convert(inputPath, outputPath, logger); err != nil {
		logger.Error("conversion failed", zap.Error(err))
		os.Exit(1)
	}
}

// outputPathFor places the snapshot next to the input: graph.json becomes graph.gob
// and a table directory berlin/ becomes berlin.gob.
func outputPathFor(inputPath string) string {
	clean := filepath.Clean(inputPath)
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return clean + ".gob"
	}
	ext := filepath.Ext(clean)
	return strings.TrimSuffix(clean, ext) + ".gob"
}

func convert(inputPath, outputPath string, logger *zap.Logger) error {
	g, err := preprocessing.LoadGraph(inputPath)
	if err != nil {
		return err
	}
	if dangling := g.DanglingEdges(); dangling > 0 {
		logger.Warn("edges reference missing nodes", zap.Int("dangling_edges", dangling))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return errors.Wrapf(err, "create output directory for %s", outputPath)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	if err := preprocessing.WriteSnapshot(f, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close snapshot")
	}

	logger.Info("converted graph",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
	)
	return nil
}
