package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clumpsim/clumpsim/sim"
)

var (
	chunkSizeBlocks      int64
	clusterSizeChunks    int64
	cacheSizeBlocks      int64
	prefetchWindowBlocks int64
	blockRange           int64
	nEvents              int64
	workloadKind         string
	sequentialProb       float64
	seed                 int64
	engineKind           string
	epochSize            int64
	raInitialWindow      int64
	raMaxWindow          int64
	resultsPath          string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation and report its statistics",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		cfg.ChunkSizeBlocks = chunkSizeBlocks
		cfg.ClusterSizeChunks = clusterSizeChunks
		cfg.CacheSizeBlocks = cacheSizeBlocks
		cfg.PrefetchWindowBlocks = prefetchWindowBlocks
		cfg.BlockRange = blockRange
		cfg.NEvents = nEvents
		cfg.WorkloadKind = sim.WorkloadKind(workloadKind)
		cfg.SequentialProb = sequentialProb
		cfg.Seed = seed
		cfg.Engine = sim.EngineKind(engineKind)
		cfg.EpochSize = epochSize
		cfg.RAInitialWindowBlocks = raInitialWindow
		cfg.RAMaxWindowBlocks = raMaxWindow

		stats, err := sim.Run(cfg)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		reportStats(stats, resultsPath)
	},
}

func reportStats(stats sim.Stats, path string) {
	fmt.Printf("\n=== Simulation Results (run %s) ===\n", stats.RunID)
	fmt.Printf("Accesses: %d\n", stats.Accesses)
	fmt.Printf("Hit rate: %.6f\n", stats.HitRate)
	fmt.Printf("Prefetch efficiency: %.6f\n", stats.PrefetchEfficiency)
	fmt.Printf("Memory bytes: %d\n", stats.MemoryBytes)
	fmt.Printf("MC rows allocated: %d\n", stats.MCRowsAllocated)
	fmt.Printf("Clusters allocated: %d\n", stats.ClustersAllocated)

	if path == "" {
		return
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		logrus.Errorf("failed to marshal results: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logrus.Errorf("failed to write results to %s: %v", path, err)
		return
	}
	logrus.Infof("results written to %s", path)
}

func init() {
	runCmd.Flags().Int64Var(&chunkSizeBlocks, "chunk-size-blocks", 16, "Blocks per chunk")
	runCmd.Flags().Int64Var(&clusterSizeChunks, "cluster-size-chunks", 64, "Chunks per cluster")
	runCmd.Flags().Int64Var(&cacheSizeBlocks, "cache-size-blocks", 4096, "Cache capacity in blocks")
	runCmd.Flags().Int64Var(&prefetchWindowBlocks, "prefetch-window-blocks", 16, "Blocks issued per prefetch")
	runCmd.Flags().Int64Var(&blockRange, "block-range", 30000, "Number of addressable blocks")
	runCmd.Flags().Int64Var(&nEvents, "n-events", 15000, "Number of accesses to generate")
	runCmd.Flags().StringVar(&workloadKind, "workload", "kvm", "Workload kind: kvm, kernel, mixed, synthetic")
	runCmd.Flags().Float64Var(&sequentialProb, "sequential-prob", 0.6, "Sequential draw probability (synthetic workload only)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Trace RNG seed")
	runCmd.Flags().StringVar(&engineKind, "engine", "cmc", "Policy engine: cmc, ra")
	runCmd.Flags().Int64Var(&epochSize, "epoch-size", 1000, "Accesses per hit-rate trajectory sample")
	runCmd.Flags().Int64Var(&raInitialWindow, "ra-initial-window-blocks", 32, "RA baseline's starting read-ahead window")
	runCmd.Flags().Int64Var(&raMaxWindow, "ra-max-window-blocks", 512, "RA baseline's window ceiling")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "File to save JSON results to")
}
