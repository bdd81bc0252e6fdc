package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/gen"
	"github.com/cyclopcam/yoloset/pkg/iox"
	"github.com/cyclopcam/yoloset/pkg/labels"
)

// ConvertSet is one segmentation dataset to convert into bounding boxes
type ConvertSet struct {
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	SrcLabels string `json:"srcLabels"`
	SrcImages string `json:"srcImages"`
	DstLabels string `json:"dstLabels"`
	DstImages string `json:"dstImages"`
}

type ConvertReport struct {
	Name         string   `json:"name"`
	Skipped      bool     `json:"skipped"`      // Inactive, or the source labels were missing
	Labels       int      `json:"labels"`       // Label files converted
	Processed    int      `json:"processed"`    // Label files whose image was copied too
	MissingImage int      `json:"missingImage"` // Label files with no image
	DroppedLines int      `json:"droppedLines"` // Polygon lines that could not be parsed
	Failures     []string `json:"failures"`
}

// ConvertSets converts each active set from segmentation polygons to bounding boxes,
// and copies the matching images alongside. A set that can't be read is skipped,
// and the remaining sets still run.
func ConvertSets(log logs.Log, sets []ConvertSet) []ConvertReport {
	reports := []ConvertReport{}
	for i, set := range sets {
		if set.Name == "" {
			set.Name = fmt.Sprintf("set%v", i+1)
		}
		if !set.Active {
			log.Infof("Set %v skipped (inactive)", set.Name)
			reports = append(reports, ConvertReport{Name: set.Name, Skipped: true})
			continue
		}
		reports = append(reports, convertSet(log, set))
	}
	return reports
}

func convertSet(log logs.Log, set ConvertSet) ConvertReport {
	r := ConvertReport{Name: set.Name}
	labelIdx, err := ScanDir(set.SrcLabels, TextLabelExtensions)
	if err != nil {
		log.Warnf("Set %v skipped: %v", set.Name, err)
		r.Skipped = true
		return r
	}
	if labelIdx.Len() == 0 {
		log.Warnf("Set %v: no label files in %v", set.Name, set.SrcLabels)
		return r
	}
	imageIdx, err := ScanDir(set.SrcImages, ImageExtensions)
	if err != nil {
		log.Warnf("Set %v: %v. Labels will be converted without images.", set.Name, err)
		imageIdx = &Index{Files: map[string]string{}}
	}
	for _, dir := range []string{set.DstLabels, set.DstImages} {
		if err := os.MkdirAll(dir, 0777); err != nil {
			log.Errorf("Set %v skipped: failed to create %v: %v", set.Name, dir, err)
			r.Skipped = true
			return r
		}
	}

	for _, stem := range gen.SortedKeys(labelIdx.Files) {
		src := labelIdx.Files[stem]
		dropped, err := convertLabelFile(filepath.Join(set.DstLabels, filepath.Base(src)), src)
		if err != nil {
			log.Warnf("Failed to convert %v: %v", src, err)
			r.Failures = append(r.Failures, src)
			continue
		}
		r.Labels++
		r.DroppedLines += dropped
		img := imageIdx.Lookup(stem)
		if img == "" {
			r.MissingImage++
			continue
		}
		if err := iox.CopyFile(filepath.Join(set.DstImages, filepath.Base(img)), img); err != nil {
			log.Warnf("Failed to copy %v: %v", img, err)
			r.Failures = append(r.Failures, img)
			continue
		}
		r.Processed++
	}
	log.Infof("Set %v: converted %v labels, copied %v images, %v without image, %v lines dropped",
		set.Name, r.Labels, r.Processed, r.MissingImage, r.DroppedLines)
	return r
}

// Returns the number of dropped lines
func convertLabelFile(dst, src string) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	res, err := labels.ConvertSegmentation(f)
	if err != nil {
		return 0, err
	}
	if err := iox.WriteStreamToFile(dst, strings.NewReader(res.Text())); err != nil {
		return 0, err
	}
	return res.Dropped, nil
}
