package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/clumpsim/clumpsim/sim"
)

// CompareReport is the JSON shape written by the compare subcommand: both
// engines' full stats plus the derived hit-rate improvement ratio, so a
// caller reading the output file doesn't have to re-derive the comparison
// from two separate run reports.
type CompareReport struct {
	CMC         sim.Stats `json:"cmc"`
	RA          sim.Stats `json:"ra"`
	Improvement float64   `json:"improvement_ratio"`
}

var (
	cmpChunkSizeBlocks      int64
	cmpClusterSizeChunks    int64
	cmpCacheSizeBlocks      int64
	cmpPrefetchWindowBlocks int64
	cmpBlockRange           int64
	cmpNEvents              int64
	cmpWorkloadKind         string
	cmpSequentialProb       float64
	cmpSeed                 int64
	cmpEpochSize            int64
	cmpRAInitialWindow      int64
	cmpRAMaxWindow          int64
	compareResultsPath      string
)

// compareCmd runs the CMC engine and the RA baseline over an identical
// trace and reports the hit-rate improvement ratio between them.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run CMC and RA over the same trace and compare hit rates",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		base := sim.DefaultConfig()
		base.ChunkSizeBlocks = cmpChunkSizeBlocks
		base.ClusterSizeChunks = cmpClusterSizeChunks
		base.CacheSizeBlocks = cmpCacheSizeBlocks
		base.PrefetchWindowBlocks = cmpPrefetchWindowBlocks
		base.BlockRange = cmpBlockRange
		base.NEvents = cmpNEvents
		base.WorkloadKind = sim.WorkloadKind(cmpWorkloadKind)
		base.SequentialProb = cmpSequentialProb
		base.Seed = cmpSeed
		base.EpochSize = cmpEpochSize
		base.RAInitialWindowBlocks = cmpRAInitialWindow
		base.RAMaxWindowBlocks = cmpRAMaxWindow

		cmcCfg := base
		cmcCfg.Engine = sim.EngineCMC
		raCfg := base
		raCfg.Engine = sim.EngineRA

		cmcTrace := sim.NewTrace(base.WorkloadKind, base.Seed, base.NEvents, base.BlockRange, base.SequentialProb)
		raTrace := sim.NewTrace(base.WorkloadKind, base.Seed, base.NEvents, base.BlockRange, base.SequentialProb)

		cmcStats, err := sim.RunWithTrace(cmcCfg, cmcTrace)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}
		raStats, err := sim.RunWithTrace(raCfg, raTrace)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		var improvement float64
		if raStats.HitRate > 0 {
			improvement = cmcStats.HitRate / raStats.HitRate
		}

		fmt.Printf("\n=== CMC vs RA ===\n")
		fmt.Printf("CMC hit rate:  %.6f\n", cmcStats.HitRate)
		fmt.Printf("RA hit rate:   %.6f\n", raStats.HitRate)
		fmt.Printf("Improvement:   %.2fx (%+.1f%%)\n", improvement, improvement*100-100)

		report := CompareReport{CMC: cmcStats, RA: raStats, Improvement: improvement}
		if compareResultsPath != "" {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				logrus.Errorf("failed to marshal results: %v", err)
			} else if err := os.WriteFile(compareResultsPath, data, 0o644); err != nil {
				logrus.Errorf("failed to write results to %s: %v", compareResultsPath, err)
			} else {
				logrus.Infof("results written to %s", compareResultsPath)
			}
		}

		atexit.Exit(0)
	},
}

func init() {
	compareCmd.Flags().Int64Var(&cmpChunkSizeBlocks, "chunk-size-blocks", 16, "Blocks per chunk")
	compareCmd.Flags().Int64Var(&cmpClusterSizeChunks, "cluster-size-chunks", 64, "Chunks per cluster")
	compareCmd.Flags().Int64Var(&cmpCacheSizeBlocks, "cache-size-blocks", 4096, "Cache capacity in blocks")
	compareCmd.Flags().Int64Var(&cmpPrefetchWindowBlocks, "prefetch-window-blocks", 16, "Blocks issued per prefetch")
	compareCmd.Flags().Int64Var(&cmpBlockRange, "block-range", 30000, "Number of addressable blocks")
	compareCmd.Flags().Int64Var(&cmpNEvents, "n-events", 15000, "Number of accesses to generate")
	compareCmd.Flags().StringVar(&cmpWorkloadKind, "workload", "kvm", "Workload kind: kvm, kernel, mixed, synthetic")
	compareCmd.Flags().Float64Var(&cmpSequentialProb, "sequential-prob", 0.6, "Sequential draw probability (synthetic workload only)")
	compareCmd.Flags().Int64Var(&cmpSeed, "seed", 42, "Trace RNG seed")
	compareCmd.Flags().Int64Var(&cmpEpochSize, "epoch-size", 1000, "Accesses per hit-rate trajectory sample")
	compareCmd.Flags().Int64Var(&cmpRAInitialWindow, "ra-initial-window-blocks", 32, "RA baseline's starting read-ahead window")
	compareCmd.Flags().Int64Var(&cmpRAMaxWindow, "ra-max-window-blocks", 512, "RA baseline's window ceiling")
	compareCmd.Flags().StringVar(&compareResultsPath, "results-path", "", "File to save the JSON comparison report (CMC and RA stats) to")
}
