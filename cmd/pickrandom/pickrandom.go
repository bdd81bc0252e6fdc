package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/console"
	"github.com/cyclopcam/yoloset/pkg/dataset"
	"github.com/cyclopcam/yoloset/pkg/journal"
)

func main() {
	parser := argparse.NewParser("pickrandom", "Copy a random sample of images from one folder to another")
	src := parser.String("s", "source", &argparse.Options{Help: "Source folder", Required: true})
	dst := parser.String("d", "dest", &argparse.Options{Help: "Destination folder", Required: true})
	count := parser.Int("n", "count", &argparse.Options{Help: "Number of images to copy", Default: 5})
	seed := parser.Int("", "seed", &argparse.Options{Help: "Random seed (0 = random)", Default: 0})
	history := parser.String("", "history", &argparse.Options{Help: "Record this run in the given history database"})
	err := parser.Parse(os.Args)
	if err == nil && *seed < 0 {
		err = fmt.Errorf("--seed may not be negative")
	}
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

	run := console.NewRun(journal.OpPick)
	rng, usedSeed := dataset.NewRand(uint64(*seed))
	report, err := dataset.PickRandom(logger, *src, *dst, *count, rng)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	j := console.OpenJournal(logger, *history)
	defer j.Close()
	run.Summary.Counts["available"] = report.Available
	run.Summary.Counts["picked"] = len(report.Picked)
	run.Summary.Counts["failed"] = len(report.CopyFailures)
	run.Summary.Detail["seed"] = strconv.FormatUint(usedSeed, 10)
	console.RecordRun(logger, j, run)
}
