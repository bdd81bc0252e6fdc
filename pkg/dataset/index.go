package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Package dataset keeps YOLO image/label collections consistent, and builds new
// collections out of them (filtered subsets, train/valid/test splits).
//
// An image and its label are joined by their file stem (the filename without its
// extension). Extensions are always compared in lower case.

// Recognized image extensions, in priority order.
// When two images share a stem, the one whose extension comes first wins.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp", ".gif"}

// Recognized label extensions, in priority order
var LabelExtensions = []string{".txt", ".json", ".jsonl", ".xml", ".yaml", ".yml"}

// Text label extension, used by every operation that reads label content
var TextLabelExtensions = []string{".txt"}

var ErrDirectoryNotFound = errors.New("Directory not found")

// Stem returns the filename without its directory and final extension
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NormalizeExtensions lower-cases extensions and adds the leading dot if it's missing.
// Duplicates are removed, and the order is otherwise preserved.
func NormalizeExtensions(raw []string) []string {
	out := []string{}
	for _, e := range raw {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

func extensionRank(filename string, extensions []string) int {
	return slices.Index(extensions, strings.ToLower(filepath.Ext(filename)))
}

// ListFiles returns the names of the regular files in dir whose extension is in 'extensions'.
// Names are sorted byte-wise.
func ListFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrDirectoryNotFound, dir)
		}
		return nil, err
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || extensionRank(e.Name(), extensions) < 0 {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Index maps file stems to files inside a single directory
type Index struct {
	Dir   string
	Files map[string]string // stem -> path of the file chosen for that stem

	// Files that lost the tie-break against another file with the same stem.
	// They're not part of any pair, but reconciliation removes them along with their stem.
	Shadowed map[string][]string
}

// ScanDir indexes the files in dir that carry one of the given extensions.
// The extension list is also the priority order for stems that appear more than once.
// Equal-priority collisions (extensions that differ only by case) are broken by filename.
func ScanDir(dir string, extensions []string) (*Index, error) {
	names, err := ListFiles(dir, extensions)
	if err != nil {
		return nil, err
	}
	// Stable sort by rank keeps filename order within a rank
	slices.SortStableFunc(names, func(a, b string) int {
		return extensionRank(a, extensions) - extensionRank(b, extensions)
	})
	idx := &Index{
		Dir:      dir,
		Files:    map[string]string{},
		Shadowed: map[string][]string{},
	}
	for _, name := range names {
		stem := Stem(name)
		path := filepath.Join(dir, name)
		if _, exists := idx.Files[stem]; exists {
			idx.Shadowed[stem] = append(idx.Shadowed[stem], path)
		} else {
			idx.Files[stem] = path
		}
	}
	return idx, nil
}

// Number of distinct stems
func (x *Index) Len() int {
	return len(x.Files)
}

// Number of files, including shadowed files
func (x *Index) FileCount() int {
	n := len(x.Files)
	for _, s := range x.Shadowed {
		n += len(s)
	}
	return n
}

// Return the chosen file for the stem, or an empty string
func (x *Index) Lookup(stem string) string {
	return x.Files[stem]
}

// All files for the stem: the chosen one first, then any shadowed ones
func (x *Index) AllFiles(stem string) []string {
	p, ok := x.Files[stem]
	if !ok {
		return nil
	}
	return append([]string{p}, x.Shadowed[stem]...)
}

// Pair is an image and its label, joined by stem
type Pair struct {
	Image  string `json:"image"`
	Label  string `json:"label"`
	Stem   string `json:"stem"`
	Source string `json:"source"` // Provenance only. Never used to decide where a pair goes.
}

// Pairs joins two indexes by stem. The result is sorted by stem.
func Pairs(images, labels *Index, source string) []Pair {
	pairs := []Pair{}
	for stem, img := range images.Files {
		lbl, ok := labels.Files[stem]
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{
			Image:  img,
			Label:  lbl,
			Stem:   stem,
			Source: source,
		})
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		return strings.Compare(a.Stem, b.Stem)
	})
	return pairs
}

// ScanPairs indexes an images directory and a labels directory, and joins them.
// Fails with ErrDirectoryNotFound if either directory is missing.
func ScanPairs(imagesDir, labelsDir string, labelExtensions []string, source string) ([]Pair, error) {
	images, err := ScanDir(imagesDir, ImageExtensions)
	if err != nil {
		return nil, err
	}
	labels, err := ScanDir(labelsDir, labelExtensions)
	if err != nil {
		return nil, err
	}
	return Pairs(images, labels, source), nil
}
