package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/console"
	"github.com/cyclopcam/yoloset/pkg/dataset"
	"github.com/cyclopcam/yoloset/pkg/journal"
)

func main() {
	parser := argparse.NewParser("syncdataset", "Synchronize a YOLO dataset, so that every image has a label and every label has an image")
	imagesDir := parser.StringPositional(&argparse.Options{Help: "Folder containing images"})
	labelsDir := parser.StringPositional(&argparse.Options{Help: "Folder containing labels"})
	labelFormats := parser.StringList("", "label-formats", &argparse.Options{Help: "Label file extensions to consider (eg .txt .json). Default: " + strings.Join(dataset.LabelExtensions, " ")})
	assumeYes := parser.Flag("y", "yes", &argparse.Options{Help: "Remove orphaned files without asking"})
	history := parser.String("", "history", &argparse.Options{Help: "Record this run in the given history database"})
	err := parser.Parse(os.Args)
	if err == nil && (*imagesDir == "" || *labelsDir == "") {
		err = fmt.Errorf("Both images_folder and labels_folder are required")
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

	formats := dataset.NormalizeExtensions(*labelFormats)
	if len(formats) == 0 {
		formats = dataset.LabelExtensions
	}

	run := console.NewRun(journal.OpSync)
	orphans, err := dataset.SyncDirs(*imagesDir, *labelsDir, formats)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	report := dataset.Reconcile(logger, orphans, false)
	logger.Infof("Image formats: %v", strings.Join(dataset.ImageExtensions, ", "))
	logger.Infof("Label formats: %v", strings.Join(formats, ", "))
	logger.Infof("Total images found: %v", report.TotalImages)
	logger.Infof("Total labels found: %v", report.TotalLabels)
	logger.Infof("Images without labels: %v", report.OrphanImages)
	logger.Infof("Labels without images: %v", report.OrphanLabels)

	if report.Synchronized {
		logger.Infof("Dataset is already synchronized. All images have labels and vice versa.")
		record(logger, *history, run, report)
		return
	}

	printPreview(logger, "Images without labels", report.PreviewImages, report.OrphanImages)
	printPreview(logger, "Labels without images", report.PreviewLabels, report.OrphanLabels)

	if !*assumeYes && !console.Confirm(os.Stdin, os.Stdout, "Do you want to remove these orphaned files?") {
		logger.Infof("Operation cancelled. No files were removed.")
		return
	}

	report = dataset.Reconcile(logger, orphans, true)
	logger.Infof("Synchronization complete")
	logger.Infof("Removed: %v images and %v labels", report.RemovedImages, report.RemovedLabels)
	if len(report.Failures) != 0 {
		logger.Warnf("%v files could not be removed", len(report.Failures))
	}
	logger.Infof("Dataset now contains: %v images with %v labels", report.RemainingImages, report.RemainingLabels)
	record(logger, *history, run, report)
}

func printPreview(logger logs.Log, title string, names []string, total int) {
	if total == 0 {
		return
	}
	logger.Infof("%v:", title)
	for _, n := range names {
		logger.Infof("  - %v", n)
	}
	if total > len(names) {
		logger.Infof("  ... and %v more", total-len(names))
	}
}

func record(logger logs.Log, history string, run console.Run, report *dataset.ReconcileReport) {
	j := console.OpenJournal(logger, history)
	defer j.Close()
	run.Summary.Counts["totalImages"] = report.TotalImages
	run.Summary.Counts["totalLabels"] = report.TotalLabels
	run.Summary.Counts["orphanImages"] = report.OrphanImages
	run.Summary.Counts["orphanLabels"] = report.OrphanLabels
	run.Summary.Counts["removedImages"] = report.RemovedImages
	run.Summary.Counts["removedLabels"] = report.RemovedLabels
	run.Summary.Counts["failed"] = len(report.Failures)
	console.RecordRun(logger, j, run)
}
