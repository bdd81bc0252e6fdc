package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/gen"
	"github.com/cyclopcam/yoloset/pkg/journal"
)

func main() {
	parser := argparse.NewParser("runhistory", "Show recent dataset runs")
	history := parser.String("", "history", &argparse.Options{Help: "History database", Required: true})
	count := parser.Int("n", "count", &argparse.Options{Help: "Number of runs to show", Default: 20})
	operation := parser.String("", "op", &argparse.Options{Help: "Only show runs of this operation (sync, filter, split, segtobox, pick)"})
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

	j, err := journal.Open(logger, *history)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer j.Close()

	runs, err := j.Recent(*count, *operation)
	if err != nil {
		logger.Errorf("Failed to read history: %v", err)
		os.Exit(1)
	}
	for _, r := range runs {
		fmt.Printf("%v  %-8v  %v  %v\n", r.StartedAt.Get().Format("2006-01-02 15:04:05"), r.Operation, r.RunID, formatSummary(r.Summary))
	}
}

func formatSummary(s *dbh.JSONField[journal.Summary]) string {
	if s == nil {
		return ""
	}
	parts := []string{}
	for _, k := range gen.SortedKeys(s.Data.Counts) {
		parts = append(parts, fmt.Sprintf("%v=%v", k, s.Data.Counts[k]))
	}
	if s.Data.Error != "" {
		parts = append(parts, "error="+s.Data.Error)
	}
	return strings.Join(parts, " ")
}
