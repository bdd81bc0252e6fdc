package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/gen"
	"github.com/cyclopcam/yoloset/pkg/iox"
	"github.com/cyclopcam/yoloset/pkg/labels"
)

// ErrConfiguration is wrapped by every error caused by bad settings, as opposed to bad files
var ErrConfiguration = errors.New("Configuration error")

// Filter modes
const (
	ModeContent = "content"
	ModeClasses = "classes"
)

// Predicate decides whether a label file qualifies, based on its text
type Predicate struct {
	Name  string
	Match func(text string) bool
}

// ContentPredicate matches label files with at least one non-whitespace character.
// Whether those characters form valid annotations is irrelevant.
func ContentPredicate() Predicate {
	return Predicate{
		Name: ModeContent,
		Match: func(text string) bool {
			return strings.TrimSpace(text) != ""
		},
	}
}

// EmptyPredicate is the inverse of ContentPredicate. It admits verified background images.
func EmptyPredicate() Predicate {
	content := ContentPredicate()
	return Predicate{
		Name: "empty",
		Match: func(text string) bool {
			return !content.Match(text)
		},
	}
}

// ClassesPredicate matches label files with at least one line whose class ID is in targets.
// Lines that don't start with an integer are skipped.
func ClassesPredicate(targets gen.Set[int]) Predicate {
	return Predicate{
		Name: fmt.Sprintf("%v %v", ModeClasses, gen.SortedKeys(targets)),
		Match: func(text string) bool {
			for _, line := range strings.Split(text, "\n") {
				if c, ok := labels.ParseClassID(line); ok && targets.Contains(c) {
					return true
				}
			}
			return false
		},
	}
}

// NewPredicate builds a predicate from a mode name ("content" or "classes")
func NewPredicate(mode string, targets gen.Set[int]) (Predicate, error) {
	switch mode {
	case ModeContent:
		return ContentPredicate(), nil
	case ModeClasses:
		if len(targets) == 0 {
			return Predicate{}, fmt.Errorf("%w: mode 'classes' needs at least one class ID", ErrConfiguration)
		}
		return ClassesPredicate(targets), nil
	}
	return Predicate{}, fmt.Errorf("%w: unknown filter mode '%v'", ErrConfiguration, mode)
}

// MatchFile reads a label file and applies the predicate to it
func (p Predicate) MatchFile(path string) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return p.Match(string(b)), nil
}

// Default subdirectories of a YOLO dataset
var DefaultSubdirs = []string{"train", "test", "valid"}

type FilterOptions struct {
	BaseDir      string   // Dataset root. Each subdir is expected to hold images/ and labels/
	Subdirs      []string // Defaults to DefaultSubdirs
	OutputImages string   // Flat output directory for images
	OutputLabels string   // Flat output directory for labels
	Predicate    Predicate
}

// CopyReport is the tally of a FilterDataset run
type CopyReport struct {
	Examined       int      `json:"examined"`       // Label files looked at
	Matched        int      `json:"matched"`        // Label files that satisfied the predicate
	Copied         int      `json:"copied"`         // Pairs copied
	MissingImages  []string `json:"missingImages"`  // Matching labels with no image
	ReadFailures   []string `json:"readFailures"`   // Labels we could not read
	CopyFailures   []string `json:"copyFailures"`   // Labels whose pair we could not copy
	SkippedSubdirs []string `json:"skippedSubdirs"` // Subdirs without images/ or labels/
}

// FilterDataset copies every image/label pair whose label satisfies the predicate into
// flat output directories, keeping the original filenames. Sources are only read.
// Per-file problems are tallied in the report. An error is returned only if the
// output directories can't be created.
func FilterDataset(log logs.Log, opt FilterOptions) (*CopyReport, error) {
	if opt.Predicate.Match == nil {
		return nil, fmt.Errorf("%w: no predicate", ErrConfiguration)
	}
	subdirs := opt.Subdirs
	if len(subdirs) == 0 {
		subdirs = DefaultSubdirs
	}
	for _, dir := range []string{opt.OutputImages, opt.OutputLabels} {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return nil, fmt.Errorf("Failed to create output directory '%v': %w", dir, err)
		}
	}

	r := &CopyReport{}
	for _, subdir := range subdirs {
		labelsDir := filepath.Join(opt.BaseDir, subdir, "labels")
		imagesDir := filepath.Join(opt.BaseDir, subdir, "images")
		labelIdx, err := ScanDir(labelsDir, TextLabelExtensions)
		if err != nil {
			log.Warnf("Skipping %v: %v", subdir, err)
			r.SkippedSubdirs = append(r.SkippedSubdirs, subdir)
			continue
		}
		imageIdx, err := ScanDir(imagesDir, ImageExtensions)
		if err != nil {
			log.Warnf("Skipping %v: %v", subdir, err)
			r.SkippedSubdirs = append(r.SkippedSubdirs, subdir)
			continue
		}
		log.Infof("Processing %v (%v labels)", subdir, labelIdx.Len())
		for _, stem := range gen.SortedKeys(labelIdx.Files) {
			r.filterOne(log, opt, labelIdx.Files[stem], imageIdx.Lookup(stem))
		}
	}

	log.Infof("Filter '%v': examined %v labels, copied %v pairs (%v missing images, %v read failures, %v copy failures)",
		opt.Predicate.Name, r.Examined, r.Copied, len(r.MissingImages), len(r.ReadFailures), len(r.CopyFailures))
	return r, nil
}

func (r *CopyReport) filterOne(log logs.Log, opt FilterOptions, labelPath, imagePath string) {
	r.Examined++
	match, err := opt.Predicate.MatchFile(labelPath)
	if err != nil {
		log.Warnf("Failed to read %v: %v", labelPath, err)
		r.ReadFailures = append(r.ReadFailures, labelPath)
		return
	}
	if !match {
		log.Debugf("Label %v does not match '%v'", filepath.Base(labelPath), opt.Predicate.Name)
		return
	}
	r.Matched++
	if imagePath == "" {
		log.Warnf("No matching image found for %v", filepath.Base(labelPath))
		r.MissingImages = append(r.MissingImages, labelPath)
		return
	}
	if err := iox.CopyFile(filepath.Join(opt.OutputLabels, filepath.Base(labelPath)), labelPath); err != nil {
		log.Warnf("Failed to copy %v: %v", labelPath, err)
		r.CopyFailures = append(r.CopyFailures, labelPath)
		return
	}
	if err := iox.CopyFile(filepath.Join(opt.OutputImages, filepath.Base(imagePath)), imagePath); err != nil {
		log.Warnf("Failed to copy %v: %v", imagePath, err)
		r.CopyFailures = append(r.CopyFailures, labelPath)
		return
	}
	r.Copied++
}
