package dataset

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/gen"
)

// Number of orphan names that a report shows for each side
const PreviewLength = 10

// OrphanSet holds the stems that exist on only one side of an image/label directory pair.
// It is computed on demand and never stored.
type OrphanSet struct {
	ImagesWithoutLabels []string // Sorted stems
	LabelsWithoutImages []string // Sorted stems

	images *Index
	labels *Index
}

// Diff computes (images - labels, labels - images) over stems.
// The result does not depend on directory listing order.
func Diff(images, labels *Index) *OrphanSet {
	return &OrphanSet{
		ImagesWithoutLabels: gen.Difference(images.Files, labels.Files),
		LabelsWithoutImages: gen.Difference(labels.Files, images.Files),
		images:              images,
		labels:              labels,
	}
}

// Returns true if every image has a label and every label has an image
func (o *OrphanSet) Empty() bool {
	return len(o.ImagesWithoutLabels) == 0 && len(o.LabelsWithoutImages) == 0
}

// Preview returns the filenames of the first n orphans on each side, in stem order
func (o *OrphanSet) Preview(n int) (images, labels []string) {
	return previewNames(o.images, o.ImagesWithoutLabels, n), previewNames(o.labels, o.LabelsWithoutImages, n)
}

func previewNames(idx *Index, stems []string, n int) []string {
	names := []string{}
	for _, stem := range stems {
		if len(names) == n {
			break
		}
		names = append(names, filepath.Base(idx.Lookup(stem)))
	}
	return names
}

// ReconcileReport is the outcome of Reconcile.
// All counts are file counts, so stems with shadowed duplicates count once per file.
type ReconcileReport struct {
	TotalImages   int      `json:"totalImages"`
	TotalLabels   int      `json:"totalLabels"`
	OrphanImages  int      `json:"orphanImages"` // Stems
	OrphanLabels  int      `json:"orphanLabels"` // Stems
	PreviewImages []string `json:"previewImages"`
	PreviewLabels []string `json:"previewLabels"`
	Synchronized  bool     `json:"synchronized"` // Nothing was orphaned to begin with
	Confirmed     bool     `json:"confirmed"`

	RemovedImages   int      `json:"removedImages"`
	RemovedLabels   int      `json:"removedLabels"`
	VanishedFiles   int      `json:"vanishedFiles"` // Already gone by the time we tried to delete them
	Failures        []string `json:"failures"`      // Files we could not delete
	RemainingImages int      `json:"remainingImages"`
	RemainingLabels int      `json:"remainingLabels"`
}

// Reconcile reports on the orphans, and deletes them if 'confirmed' is true.
// Every orphan file is attempted, even if some deletions fail.
// Reconcile never asks for confirmation itself; that's up to the caller.
func Reconcile(log logs.Log, o *OrphanSet, confirmed bool) *ReconcileReport {
	r := &ReconcileReport{
		TotalImages:  o.images.FileCount(),
		TotalLabels:  o.labels.FileCount(),
		OrphanImages: len(o.ImagesWithoutLabels),
		OrphanLabels: len(o.LabelsWithoutImages),
		Synchronized: o.Empty(),
		Confirmed:    confirmed,
	}
	r.PreviewImages, r.PreviewLabels = o.Preview(PreviewLength)
	r.RemainingImages = r.TotalImages
	r.RemainingLabels = r.TotalLabels

	if r.Synchronized || !confirmed {
		return r
	}

	for _, stem := range o.ImagesWithoutLabels {
		for _, path := range o.images.AllFiles(stem) {
			if r.remove(log, path) {
				r.RemovedImages++
			}
		}
	}
	for _, stem := range o.LabelsWithoutImages {
		for _, path := range o.labels.AllFiles(stem) {
			if r.remove(log, path) {
				r.RemovedLabels++
			}
		}
	}
	r.RemainingImages = r.TotalImages - r.RemovedImages
	r.RemainingLabels = r.TotalLabels - r.RemovedLabels
	return r
}

// Returns true if the file was deleted by us
func (r *ReconcileReport) remove(log logs.Log, path string) bool {
	err := os.Remove(path)
	if err == nil {
		log.Infof("Removed: %v", path)
		return true
	}
	if errors.Is(err, os.ErrNotExist) {
		r.VanishedFiles++
		log.Warnf("Already gone: %v", path)
		return false
	}
	r.Failures = append(r.Failures, path)
	log.Warnf("Failed to remove %v: %v", path, err)
	return false
}

// SyncDirs indexes imagesDir and labelsDir and computes their orphans.
// labelExtensions defaults to LabelExtensions when empty.
func SyncDirs(imagesDir, labelsDir string, labelExtensions []string) (*OrphanSet, error) {
	if len(labelExtensions) == 0 {
		labelExtensions = LabelExtensions
	}
	images, err := ScanDir(imagesDir, ImageExtensions)
	if err != nil {
		return nil, err
	}
	labels, err := ScanDir(labelsDir, labelExtensions)
	if err != nil {
		return nil, err
	}
	return Diff(images, labels), nil
}
