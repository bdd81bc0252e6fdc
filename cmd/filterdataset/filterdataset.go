package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/console"
	"github.com/cyclopcam/yoloset/pkg/dataset"
	"github.com/cyclopcam/yoloset/pkg/gen"
	"github.com/cyclopcam/yoloset/pkg/journal"
)

func main() {
	parser := argparse.NewParser("filterdataset", "Copy the image/label pairs of a YOLO dataset whose labels have content, or contain specific classes")
	input := parser.String("i", "input", &argparse.Options{Help: "YOLO dataset directory (containing train/, valid/, test/)", Required: true})
	mode := parser.Selector("m", "mode", []string{dataset.ModeContent, dataset.ModeClasses}, &argparse.Options{Help: "content: copy non-empty labels. classes: copy labels containing one of --classes", Default: dataset.ModeClasses})
	classes := parser.StringList("c", "classes", &argparse.Options{Help: "Target class IDs (with --mode classes)", Default: []string{"0"}})
	outImages := parser.String("", "output-images", &argparse.Options{Help: "Output images directory, relative to --input", Default: "filtered_images"})
	outLabels := parser.String("", "output-labels", &argparse.Options{Help: "Output labels directory, relative to --input", Default: "filtered_labels"})
	subdirs := parser.StringList("", "subdirs", &argparse.Options{Help: "Subdirectories to process", Default: dataset.DefaultSubdirs})
	noConfirm := parser.Flag("", "no-confirm", &argparse.Options{Help: "Skip the confirmation prompt"})
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

	if _, err := os.Stat(*input); err != nil {
		logger.Errorf("The path %v does not exist", *input)
		os.Exit(1)
	}

	targets, err := gen.ParseIntSet(*classes)
	if err != nil {
		logger.Errorf("%v: %v", dataset.ErrConfiguration, err)
		os.Exit(1)
	}
	predicate, err := dataset.NewPredicate(*mode, targets)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	opt := dataset.FilterOptions{
		BaseDir:      *input,
		Subdirs:      *subdirs,
		OutputImages: outputPath(*input, *outImages),
		OutputLabels: outputPath(*input, *outLabels),
		Predicate:    predicate,
	}
	logger.Infof("Input dataset: %v", opt.BaseDir)
	logger.Infof("Filter: %v", predicate.Name)
	logger.Infof("Output images directory: %v", opt.OutputImages)
	logger.Infof("Output labels directory: %v", opt.OutputLabels)
	logger.Infof("Subdirectories to process: %v", opt.Subdirs)

	if !*noConfirm && !console.Confirm(os.Stdin, os.Stdout, "Do you want to continue?") {
		logger.Infof("Cancelled")
		return
	}

	run := console.NewRun(journal.OpFilter)
	report, err := dataset.FilterDataset(logger, opt)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	logger.Infof("Total processed labels: %v", report.Examined)
	logger.Infof("Total copied pairs: %v", report.Copied)

	j := console.OpenJournal(logger, *history)
	defer j.Close()
	run.Summary.Counts["examined"] = report.Examined
	run.Summary.Counts["matched"] = report.Matched
	run.Summary.Counts["copied"] = report.Copied
	run.Summary.Counts["missingImages"] = len(report.MissingImages)
	run.Summary.Counts["failed"] = len(report.ReadFailures) + len(report.CopyFailures)
	run.Summary.Counts["skippedSubdirs"] = len(report.SkippedSubdirs)
	run.Summary.Detail["predicate"] = predicate.Name
	console.RecordRun(logger, j, run)
}

// Relative output names live inside the dataset directory
func outputPath(base, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(base, name)
}
