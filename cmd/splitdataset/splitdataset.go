package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/config"
	"github.com/cyclopcam/yoloset/pkg/console"
	"github.com/cyclopcam/yoloset/pkg/dataset"
	"github.com/cyclopcam/yoloset/pkg/journal"
)

func main() {
	parser := argparse.NewParser("splitdataset", "Merge YOLO datasets and split them into train, valid and test sets")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Split configuration (JSON)", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Override the output directory of the config file"})
	seed := parser.Int("s", "seed", &argparse.Options{Help: "Override the random seed of the config file (0 = random)", Default: -1})
	history := parser.String("", "history", &argparse.Options{Help: "Record this run in the given history database"})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	console.ExitOnInterrupt(logger)

	cfg, err := config.LoadSplitConfig(*configFile)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *output != "" {
		cfg.OutputDir = *output
	}
	if *seed >= 0 {
		cfg.Seed = uint64(*seed)
	}

	run := console.NewRun(journal.OpSplit)
	report, err := dataset.SplitDataset(logger, cfg.Options())
	if errors.Is(err, dataset.ErrNoPairs) {
		logger.Errorf("No data found. Please check your paths.")
	} else if err != nil {
		logger.Errorf("%v", err)
	}

	if report != nil {
		j := console.OpenJournal(logger, *history)
		run.Summary.Counts["total"] = report.Total
		run.Summary.Counts["nullSelected"] = report.NullSelected
		for name, n := range report.SliceSizes {
			run.Summary.Counts[name] = n
		}
		run.Summary.Counts["copied"] = report.Copied
		run.Summary.Counts["failed"] = len(report.CopyFailures)
		run.Summary.Counts["nameClashes"] = len(report.NameClashes)
		run.Summary.Detail["seed"] = strconv.FormatUint(report.Seed, 10)
		if err != nil {
			run.Summary.Error = err.Error()
		}
		console.RecordRun(logger, j, run)
		j.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
