// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dotmd/dotmd"
	"github.com/dotmd/dotmd/config"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/retrieval"
)

func main() {
	app := &cli.App{
		Name:  "dotmd",
		Usage: "Hybrid retrieval engine over a Markdown vault",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "index-dir",
				Aliases: []string{"d"},
				Usage:   "Path to the index directory",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Index a directory of Markdown files",
				ArgsUsage: "<directory>",
				Action:    indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "bge-small-en-v1.5",
					},
					&cli.StringFlag{
						Name:  "extract-depth",
						Usage: "Extractor depth: structural or ner",
						Value: string(config.ExtractStructural),
					},
					&cli.StringFlag{
						Name:  "classifier-host",
						Usage: "NER classifier service host URL (extract-depth=ner)",
					},
					&cli.StringFlag{
						Name:  "classifier-model",
						Usage: "NER classifier model name (extract-depth=ner)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Retrieval mode: hybrid, semantic, bm25, graph",
						Value: string(config.ModeHybrid),
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Apply cross-encoder reranking",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Print per-engine timing and candidate counts to stderr",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Report the corpus's current size",
				Action: statusCommand,
			},
			{
				Name:   "clear",
				Usage:  "Delete the entire index",
				Action: clearCommand,
			},
			{
				Name:   "gc",
				Usage:  "Remove zero-degree entities and tags",
				Action: gcCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Re-run the embedding step over the whole corpus",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) *config.Config {
	cfg := config.DefaultConfig()
	if dir := c.String("index-dir"); dir != "" {
		cfg.IndexDir = dir
	}
	return cfg
}

func indexCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: dotmd index <directory>")
	}
	root := c.Args().Get(0)

	cfg := loadConfig(c)
	cfg.EmbeddingHost = c.String("embedding-host")
	cfg.EmbeddingModel = c.String("embedding-model")
	cfg.ExtractDepth = config.ExtractDepth(c.String("extract-depth"))
	if host := c.String("classifier-host"); host != "" {
		cfg.ClassifierHost = host
	}
	if model := c.String("classifier-model"); model != "" {
		cfg.ClassifierModel = model
	}

	db, err := dotmd.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	result, err := db.Index(context.Background(), root)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "indexed %d files, %d failed\n", result.FilesIndexed, result.FilesFailed)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: dotmd search <query>")
	}
	query := c.Args().Get(0)

	cfg := loadConfig(c)
	db, err := dotmd.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	var mon retrieval.Monitor = retrieval.NoopMonitor()
	if c.Bool("verbose") {
		mon = newVerboseMonitor(os.Stderr)
	}

	results, err := db.Search(context.Background(), query, dotmd.SearchOptions{
		Mode:    config.Mode(c.String("mode")),
		TopK:    c.Int("top-k"),
		Rerank:  c.Bool("rerank"),
		Monitor: mon,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// verboseMonitor prints per-engine timing and candidate counts to a
// writer, for the search command's --verbose flag.
type verboseMonitor struct {
	w io.Writer
}

func newVerboseMonitor(w io.Writer) *verboseMonitor {
	return &verboseMonitor{w: w}
}

func (m *verboseMonitor) Start(query string) {
	fmt.Fprintf(m.w, "searching %q\n", query)
}

func (m *verboseMonitor) AfterDense(results []core.ScoredChunk, elapsed time.Duration) {
	fmt.Fprintf(m.w, "  dense:  %d candidates in %s\n", len(results), elapsed.Round(time.Millisecond))
}

func (m *verboseMonitor) AfterSparse(results []core.ScoredChunk, elapsed time.Duration) {
	fmt.Fprintf(m.w, "  sparse: %d candidates in %s\n", len(results), elapsed.Round(time.Millisecond))
}

func (m *verboseMonitor) AfterGraph(results []core.ScoredChunk, elapsed time.Duration) {
	fmt.Fprintf(m.w, "  graph:  %d candidates in %s\n", len(results), elapsed.Round(time.Millisecond))
}

func (m *verboseMonitor) Finish() {
	fmt.Fprintln(m.w, "done")
}

func statusCommand(c *cli.Context) error {
	cfg := loadConfig(c)
	db, err := dotmd.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	status, err := db.Status(context.Background())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

func clearCommand(c *cli.Context) error {
	cfg := loadConfig(c)
	db, err := dotmd.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	if err := db.Clear(); err != nil {
		db.Close()
		return fmt.Errorf("clear failed: %w", err)
	}
	return db.Close()
}

func gcCommand(c *cli.Context) error {
	cfg := loadConfig(c)
	db, err := dotmd.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	result, err := db.GC(context.Background())
	if err != nil {
		return fmt.Errorf("gc failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "removed %d entities, %d tags in %s\n",
		result.EntitiesRemoved, result.TagsRemoved, result.Duration)
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg := loadConfig(c)
	if host := c.String("embedding-host"); host != "" {
		cfg.EmbeddingHost = host
	}
	if model := c.String("embedding-model"); model != "" {
		cfg.EmbeddingModel = model
	}

	db, err := dotmd.Open(cfg, dotmd.SkipFrozenCheck())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	if err := db.Reembed(context.Background(), os.Stderr); err != nil {
		return fmt.Errorf("reembed failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
