package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/iox"
)

// How far the split ratios may stray from a sum of 1
const RatioTolerance = 0.001

var ErrNoPairs = errors.New("No image/label pairs found")

// Names of the output slices, in the order they are cut from the shuffled list
const (
	SliceTrain = "train"
	SliceValid = "valid"
	SliceTest  = "test"
)

// Source is one dataset that feeds into a split
type Source struct {
	Name      string `json:"name"`
	ImagesDir string `json:"imagesDir"`
	LabelsDir string `json:"labelsDir"`
	Active    bool   `json:"active"`
}

// NullSource holds background images. Only pairs whose label file is empty are admitted.
type NullSource struct {
	Source
	Cap int `json:"cap"` // Maximum number of background pairs to use. 0 = use all.
}

type Ratios struct {
	Train float64 `json:"train"`
	Valid float64 `json:"valid"`
	Test  float64 `json:"test"`
}

// Validate checks that every ratio is a finite non-negative number, and that they sum to 1
func (r Ratios) Validate() error {
	for _, v := range []float64{r.Train, r.Valid, r.Test} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: split ratios must be finite (%v, %v, %v)", ErrConfiguration, r.Train, r.Valid, r.Test)
		}
	}
	if r.Train < 0 || r.Valid < 0 || r.Test < 0 {
		return fmt.Errorf("%w: split ratios may not be negative (%v, %v, %v)", ErrConfiguration, r.Train, r.Valid, r.Test)
	}
	sum := r.Train + r.Valid + r.Test
	if !(math.Abs(sum-1) <= RatioTolerance) {
		return fmt.Errorf("%w: split ratios sum to %.4f instead of 1", ErrConfiguration, sum)
	}
	return nil
}

// Slice is one named output bucket of a split
type Slice struct {
	Name  string
	Pairs []Pair
}

// NewRand returns the random source used for sampling and shuffling.
// A zero seed picks one from the clock. The seed actually used is returned so that a run can be repeated.
func NewRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32)), seed
}

// SampleNull returns a uniform random sample of 'limit' pairs, without replacement.
// If limit is zero, or there are not more than limit pairs, all of them are returned.
// The input slice is not modified.
func SampleNull(pairs []Pair, limit int, rng *rand.Rand) []Pair {
	if limit <= 0 || len(pairs) <= limit {
		return pairs
	}
	out := make([]Pair, 0, limit)
	for _, i := range rng.Perm(len(pairs))[:limit] {
		out = append(out, pairs[i])
	}
	return out
}

// Split shuffles a copy of pairs, and cuts it into train, valid and test slices.
// train gets floor(N*Train) pairs, valid gets floor(N*Valid), and test gets the remainder,
// so every pair lands in exactly one slice.
func Split(pairs []Pair, ratios Ratios, rng *rand.Rand) [3]Slice {
	all := make([]Pair, len(pairs))
	copy(all, pairs)
	rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	n := len(all)
	nTrain := int(math.Floor(float64(n) * ratios.Train))
	nValid := int(math.Floor(float64(n) * ratios.Valid))
	nTrain = min(nTrain, n)
	nValid = min(nValid, n-nTrain)
	return [3]Slice{
		{Name: SliceTrain, Pairs: all[:nTrain]},
		{Name: SliceValid, Pairs: all[nTrain : nTrain+nValid]},
		{Name: SliceTest, Pairs: all[nTrain+nValid:]},
	}
}

type SplitOptions struct {
	Sources   []Source
	Null      *NullSource // Optional
	Ratios    Ratios
	OutputDir string // Slices are written to OutputDir/{train,valid,test}/{images,labels}
	Seed      uint64 // 0 = random
}

type SourceReport struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Missing bool   `json:"missing"` // Directory not found
	Pairs   int    `json:"pairs"`
}

type SplitReport struct {
	Seed         uint64         `json:"seed"`
	Sources      []SourceReport `json:"sources"`
	NullFound    int            `json:"nullFound"`    // Background pairs with an empty label
	NullIgnored  int            `json:"nullIgnored"`  // Pairs in the null source whose label was not empty
	NullSelected int            `json:"nullSelected"` // Background pairs that made it into the merge
	Total        int            `json:"total"`
	SliceSizes   map[string]int `json:"sliceSizes"`
	Copied       int            `json:"copied"`
	CopyFailures []string       `json:"copyFailures"`
	NameClashes  []string       `json:"nameClashes"` // Images not copied because an earlier pair in the same slice has the same filename
}

// SplitDataset merges all active sources (plus the sampled null pool), shuffles them, and
// copies them into train/valid/test directories.
// Bad ratios abort before anything is read or written. Missing source directories are
// skipped, and individual copy failures are logged without stopping the split.
func SplitDataset(log logs.Log, opt SplitOptions) (*SplitReport, error) {
	if err := opt.Ratios.Validate(); err != nil {
		return nil, err
	}
	if opt.OutputDir == "" {
		return nil, fmt.Errorf("%w: no output directory", ErrConfiguration)
	}
	rng, seed := NewRand(opt.Seed)
	r := &SplitReport{
		Seed:       seed,
		SliceSizes: map[string]int{},
	}
	log.Infof("Splitting with seed %v", seed)

	merged := []Pair{}
	for i, src := range opt.Sources {
		name := src.Name
		if name == "" {
			name = fmt.Sprintf("source%v", i+1)
		}
		sr := SourceReport{Name: name, Active: src.Active}
		if !src.Active {
			log.Infof("Source %v skipped (inactive)", name)
			r.Sources = append(r.Sources, sr)
			continue
		}
		pairs, err := ScanPairs(src.ImagesDir, src.LabelsDir, TextLabelExtensions, name)
		if err != nil {
			log.Warnf("Source %v skipped: %v", name, err)
			sr.Missing = true
			r.Sources = append(r.Sources, sr)
			continue
		}
		sr.Pairs = len(pairs)
		log.Infof("Source %v: %v pairs", name, len(pairs))
		r.Sources = append(r.Sources, sr)
		merged = append(merged, pairs...)
	}

	if opt.Null != nil && opt.Null.Active {
		nulls, ignored, err := scanNullPairs(log, opt.Null.Source)
		if err != nil {
			log.Warnf("Null source skipped: %v", err)
		} else {
			r.NullFound = len(nulls)
			r.NullIgnored = ignored
			selected := SampleNull(nulls, opt.Null.Cap, rng)
			r.NullSelected = len(selected)
			log.Infof("Null source: %v background pairs, %v annotated ignored, %v selected", len(nulls), ignored, len(selected))
			merged = append(merged, selected...)
		}
	}

	r.Total = len(merged)
	if len(merged) == 0 {
		return r, ErrNoPairs
	}

	for _, slice := range Split(merged, opt.Ratios, rng) {
		r.SliceSizes[slice.Name] = len(slice.Pairs)
		log.Infof("Copying %v set (%v pairs)", slice.Name, len(slice.Pairs))
		r.copySlice(log, filepath.Join(opt.OutputDir, slice.Name), slice.Pairs)
	}
	log.Infof("Split complete: train %v, valid %v, test %v, %v copy failures, %v name clashes",
		r.SliceSizes[SliceTrain], r.SliceSizes[SliceValid], r.SliceSizes[SliceTest], len(r.CopyFailures), len(r.NameClashes))
	return r, nil
}

func scanNullPairs(log logs.Log, src Source) (pairs []Pair, ignored int, err error) {
	name := src.Name
	if name == "" {
		name = "null"
	}
	all, err := ScanPairs(src.ImagesDir, src.LabelsDir, TextLabelExtensions, name)
	if err != nil {
		return nil, 0, err
	}
	empty := EmptyPredicate()
	for _, p := range all {
		ok, err := empty.MatchFile(p.Label)
		if err != nil {
			log.Warnf("Failed to read %v: %v", p.Label, err)
			continue
		}
		if !ok {
			ignored++
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, ignored, nil
}

func (r *SplitReport) copySlice(log logs.Log, dir string, pairs []Pair) {
	if len(pairs) == 0 {
		return
	}
	imgDir := filepath.Join(dir, "images")
	lblDir := filepath.Join(dir, "labels")
	for _, d := range []string{imgDir, lblDir} {
		if err := os.MkdirAll(d, 0777); err != nil {
			log.Errorf("Failed to create %v: %v", d, err)
			for _, p := range pairs {
				r.CopyFailures = append(r.CopyFailures, p.Image)
			}
			return
		}
	}
	// Pairs from different sources may share a filename. The first one wins.
	taken := map[string]bool{}
	for _, p := range pairs {
		imgName := filepath.Base(p.Image)
		lblName := filepath.Base(p.Label)
		if taken["i/"+imgName] || taken["l/"+lblName] {
			log.Warnf("Not copying %v: a pair with the same filename is already in %v", p.Image, dir)
			r.NameClashes = append(r.NameClashes, p.Image)
			continue
		}
		taken["i/"+imgName] = true
		taken["l/"+lblName] = true
		if err := iox.CopyFile(filepath.Join(imgDir, imgName), p.Image); err != nil {
			log.Warnf("Failed to copy %v: %v", p.Image, err)
			r.CopyFailures = append(r.CopyFailures, p.Image)
			continue
		}
		if err := iox.CopyFile(filepath.Join(lblDir, lblName), p.Label); err != nil {
			log.Warnf("Failed to copy %v: %v", p.Label, err)
			r.CopyFailures = append(r.CopyFailures, p.Image)
			continue
		}
		r.Copied++
	}
}
