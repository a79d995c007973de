package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"vocab-graph/config"
	"vocab-graph/database"
	"vocab-graph/graph"
	"vocab-graph/importer"
	"vocab-graph/web/handlers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotOut   string
	simulateCount int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var importCmd = &cobra.Command{
	Use:   "import-csv [path]",
	Short: "Import the vocabulary CSV into Neo4j",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImportCSV,
}

var snapshotCmd = &cobra.Command{
	Use:   "build-snapshot [path]",
	Short: "Build the graph snapshot JSON from the vocabulary CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuildSnapshot,
}

var learnersCmd = &cobra.Command{
	Use:   "learners",
	Short: "Manage demo learners in Neo4j",
}

var learnersInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Novice, Intermediate and Advanced learners",
	Args:  cobra.NoArgs,
	RunE:  runLearnersInit,
}

var learnersSimulateCmd = &cobra.Command{
	Use:   "simulate <learner-id>",
	Short: "Link a learner to random words with random mastery",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearnersSimulate,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print node and edge counts of the graph snapshot",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "snapshot output path (default: configured graph path)")
	learnersSimulateCmd.Flags().IntVarP(&simulateCount, "count", "n", handlers.SimulatedWords, "number of words to link")

	learnersCmd.AddCommand(learnersInitCmd, learnersSimulateCmd)
	rootCmd.AddCommand(serveCmd, importCmd, snapshotCmd, learnersCmd, statsCmd)
}

// csvPath picks the CSV argument, falling back to IMPORT_CSV_PATH.
func csvPath(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.ImportCSVPath == "" {
		return "", fmt.Errorf("no CSV path given and IMPORT_CSV_PATH is not set")
	}
	return cfg.ImportCSVPath, nil
}

// withNeo4j runs fn against a connected Neo4j store.
func withNeo4j(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, store *database.Neo4jStore, logger *zap.Logger) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.Cleanup()

	ctx := cmd.Context()
	store := database.NewNeo4jStore(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, logger)
	defer store.Close(context.Background())
	if !store.Enabled() {
		return fmt.Errorf("neo4j is not reachable at %q", cfg.Neo4jURI)
	}
	return fn(ctx, cfg, store, logger)
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	return withNeo4j(cmd, func(ctx context.Context, cfg *config.Config, store *database.Neo4jStore, logger *zap.Logger) error {
		path, err := csvPath(cfg, args)
		if err != nil {
			return err
		}
		rows, err := importer.ReadFile(path)
		if err != nil {
			return err
		}
		stats, err := importer.Import(ctx, rows, store, logger)
		if err != nil {
			return err
		}
		fmt.Printf("Import completed: %d created, %d errors, %d skipped\n", stats.Created, stats.Errors, stats.Skipped)
		return nil
	})
}

func runBuildSnapshot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.Cleanup()

	path, err := csvPath(cfg, args)
	if err != nil {
		return err
	}
	rows, err := importer.ReadFile(path)
	if err != nil {
		return err
	}

	out := snapshotOut
	if out == "" {
		out = cfg.GraphPath()
	}
	snap := importer.BuildSnapshot(rows)
	if err := importer.WriteSnapshot(out, snap); err != nil {
		return err
	}
	logger.Info("Snapshot written",
		zap.String("path", out),
		zap.Int("nodes", len(snap.Nodes)),
		zap.Int("edges", len(snap.Edges)))
	return nil
}

func runLearnersInit(cmd *cobra.Command, args []string) error {
	return withNeo4j(cmd, func(ctx context.Context, cfg *config.Config, store *database.Neo4jStore, logger *zap.Logger) error {
		if err := store.InitLearners(ctx); err != nil {
			return err
		}
		fmt.Println("Initialized 3 learners: Novice, Intermediate, Advanced")
		return nil
	})
}

func runLearnersSimulate(cmd *cobra.Command, args []string) error {
	return withNeo4j(cmd, func(ctx context.Context, cfg *config.Config, store *database.Neo4jStore, logger *zap.Logger) error {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		linked, err := store.SimulateHistory(ctx, args[0], simulateCount, rng)
		if err != nil {
			return err
		}
		fmt.Printf("Simulated history for %s: %d words linked.\n", args[0], linked)
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.Cleanup()

	stats, err := graph.NewSource(cfg.GraphPath(), logger).Stats()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
