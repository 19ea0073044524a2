package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"ApproxDB/config"
	zaplog "ApproxDB/log"
	"ApproxDB/metrics"
	"ApproxDB/scheduler"

	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		configPath    = flag.String("config", "", "YAML config file (optional)")
		dbPath        = flag.String("db", "", "snapshot file to open")
		samplePercent = flag.Float64("sample", 10, "sample percent for approximate queries")
		numThreads    = flag.Int("threads", 4, "worker threads")
	)
	flag.Parse()

	logger := zaplog.Console(zapcore.InfoLevel)
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath, logger)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	metrics.Init()

	s, err := scheduler.New(cfg, logger)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer s.CloseDatabase()

	if *dbPath != "" {
		if err := s.OpenDatabase(*dbPath); err != nil {
			log.Fatalf("open database: %v", err)
		}
		fmt.Printf("Opened %s: %d records, height %d, %.2f MB\n",
			*dbPath, s.GetTotalRecords(), s.GetTreeHeight(), s.GetDatabaseSizeMB())
	}

	scanner := bufio.NewScanner(os.Stdin)
	// REPL
	for {
		fmt.Print("aqe> ")

		if !scanner.Scan() { // Ctrl+D pressed
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "exit") {
			break
		}
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "stats") {
			fmt.Printf("records: %d, height: %d, size: %.2f MB\n",
				s.GetTotalRecords(), s.GetTreeHeight(), s.GetDatabaseSizeMB())
			continue
		}

		if strings.Contains(strings.ToUpper(line), "GROUP BY") {
			groups, err := s.ExecuteGroupByQuery(line, *samplePercent, *numThreads)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			keys := make([]string, 0, len(groups))
			for k := range groups {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				ci := groups[k]
				fmt.Printf("  %s: %.4f  [%.4f, %.4f]\n", k, ci.Value, ci.Lower, ci.Upper)
			}
			continue
		}

		res, err := s.ExecuteQuery(line, *samplePercent, *numThreads)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Printf("  value: %.4f\n", res.Value)
		fmt.Printf("  status: %s, confidence: %.2f, margin: %.4f\n",
			res.Status, res.ConfidenceLevel, res.ErrorMargin)
		fmt.Printf("  samples: %d, time: %s\n", res.SamplesUsed, res.ComputationTime)
	}
}
