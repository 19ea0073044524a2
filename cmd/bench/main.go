// Benchmark harness: loads (or generates) a dataset, sweeps sample rates
// and thread counts for each aggregate, and writes one CSV row per
// configuration with latency, speedup, error and memory footprint.
// Run: go run ./cmd/bench -records 1000000 -csv bench_results.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"strconv"

	"ApproxDB/config"
	zaplog "ApproxDB/log"
	"ApproxDB/scheduler"
	"ApproxDB/types"

	"go.uber.org/zap/zapcore"
)

type memoryStats struct {
	AllocMB     uint64
	HeapObjects uint64
}

// getDetailedMem forces a GC so the numbers reflect live data, not garbage.
func getDetailedMem() memoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return memoryStats{
		AllocMB:     m.Alloc / 1024 / 1024,
		HeapObjects: m.HeapObjects,
	}
}

func main() {
	var (
		numRecords = flag.Int("records", 1000000, "records to generate")
		csvPath    = flag.String("csv", "bench_results.csv", "output CSV path")
		snapshot   = flag.String("snapshot", "", "load this snapshot instead of generating data")
	)
	flag.Parse()

	logger := zaplog.Console(zapcore.WarnLevel)
	defer logger.Sync()

	s, err := scheduler.New(config.Default(), logger)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer s.CloseDatabase()

	if *snapshot != "" {
		if err := s.OpenDatabase(*snapshot); err != nil {
			log.Fatalf("open snapshot: %v", err)
		}
	} else {
		rng := rand.New(rand.NewSource(42))
		records := make([]types.Record, *numRecords)
		for i := range records {
			records[i] = types.Record{
				ID:        int64(i + 1),
				Amount:    rng.Float64() * 1000,
				Region:    int32(i % 4),
				ProductID: int32(i % 10),
			}
		}
		s.InsertBatch(records)
	}
	fmt.Printf("Benchmarking over %d records (%.2f MB)\n", s.GetTotalRecords(), s.GetDatabaseSizeMB())

	f, err := os.Create(*csvPath)
	if err != nil {
		log.Fatalf("create csv: %v", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"Kind", "SamplePercent", "Threads", "ExactValue", "ApproxValue",
		"ExactMs", "ApproxMs", "Speedup", "ErrorPct", "MemMB", "HeapObjects"})

	kinds := []string{"SUM", "AVG", "COUNT"}
	samplePercents := []float64{1, 5, 10, 25}
	threadCounts := []int{1, 2, 4, 8}

	for _, kind := range kinds {
		for _, p := range samplePercents {
			for _, threads := range threadCounts {
				b := s.BenchmarkQuery(kind, p, threads)
				mem := getDetailedMem()
				w.Write([]string{
					kind,
					strconv.FormatFloat(p, 'g', -1, 64),
					strconv.Itoa(threads),
					strconv.FormatFloat(b.ExactValue, 'f', 4, 64),
					strconv.FormatFloat(b.ApproximateValue, 'f', 4, 64),
					strconv.FormatFloat(b.ExactTimeMs, 'f', 3, 64),
					strconv.FormatFloat(b.ApproximateTimeMs, 'f', 3, 64),
					strconv.FormatFloat(b.Speedup, 'f', 2, 64),
					strconv.FormatFloat(b.ErrorPercentage, 'f', 4, 64),
					strconv.FormatUint(mem.AllocMB, 10),
					strconv.FormatUint(mem.HeapObjects, 10),
				})
				fmt.Printf("%s p=%g t=%d: err %.3f%%, speedup %.1fx\n",
					kind, p, threads, b.ErrorPercentage, b.Speedup)
			}
		}
	}

	w.Flush()
	fmt.Printf("Benchmark complete. Results in %s\n", *csvPath)
}
