package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/config"
	"github.com/cyclopcam/yoloset/pkg/console"
	"github.com/cyclopcam/yoloset/pkg/dataset"
	"github.com/cyclopcam/yoloset/pkg/journal"
)

func main() {
	parser := argparse.NewParser("segtobox", "Convert YOLO segmentation labels into bounding box labels")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Conversion sets (JSON)"})
	srcLabels := parser.String("", "labels", &argparse.Options{Help: "Segmentation labels folder (single set, instead of --config)"})
	srcImages := parser.String("", "images", &argparse.Options{Help: "Images folder (single set)"})
	dstLabels := parser.String("", "labels-out", &argparse.Options{Help: "Output labels folder (single set)"})
	dstImages := parser.String("", "images-out", &argparse.Options{Help: "Output images folder (single set)"})
	history := parser.String("", "history", &argparse.Options{Help: "Record this run in the given history database"})
	err := parser.Parse(os.Args)
	if err == nil && *configFile == "" && (*srcLabels == "" || *dstLabels == "" || *dstImages == "") {
		err = fmt.Errorf("Specify either --config, or --labels, --labels-out and --images-out")
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

	var sets []dataset.ConvertSet
	if *configFile != "" {
		cfg, err := config.LoadConvertConfig(*configFile)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		sets = cfg.Sets
	} else {
		sets = []dataset.ConvertSet{{
			Name:      "cmdline",
			Active:    true,
			SrcLabels: *srcLabels,
			SrcImages: *srcImages,
			DstLabels: *dstLabels,
			DstImages: *dstImages,
		}}
	}
	logger.Infof("Datasets configured: %v", len(sets))

	run := console.NewRun(journal.OpSegToBox)
	reports := dataset.ConvertSets(logger, sets)
	for _, r := range reports {
		if r.Skipped {
			run.Summary.Counts["skippedSets"]++
			continue
		}
		logger.Infof("Set %v: processed %v / skipped %v", r.Name, r.Processed, r.MissingImage)
		run.Summary.Counts["labels"] += r.Labels
		run.Summary.Counts["processed"] += r.Processed
		run.Summary.Counts["missingImage"] += r.MissingImage
		run.Summary.Counts["droppedLines"] += r.DroppedLines
		run.Summary.Counts["failed"] += len(r.Failures)
	}

	j := console.OpenJournal(logger, *history)
	defer j.Close()
	console.RecordRun(logger, j, run)
}
