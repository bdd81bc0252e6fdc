package dataset

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/iox"
)

type PickReport struct {
	Available    int      `json:"available"`
	Picked       []string `json:"picked"` // Filenames, in the order they were drawn
	CopyFailures []string `json:"copyFailures"`
}

// PickRandom copies n images, drawn uniformly without replacement, from srcDir to dstDir.
// If fewer than n images exist, all of them are copied.
func PickRandom(log logs.Log, srcDir, dstDir string, n int, rng *rand.Rand) (*PickReport, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative image count %v", ErrConfiguration, n)
	}
	names, err := ListFiles(srcDir, ImageExtensions)
	if err != nil {
		return nil, err
	}
	r := &PickReport{Available: len(names)}
	if len(names) == 0 {
		log.Warnf("No images found in %v", srcDir)
		return r, nil
	}
	if err := os.MkdirAll(dstDir, 0777); err != nil {
		return nil, fmt.Errorf("Failed to create output directory '%v': %w", dstDir, err)
	}
	n = min(n, len(names))
	for _, i := range rng.Perm(len(names))[:n] {
		name := names[i]
		if err := iox.CopyFile(filepath.Join(dstDir, name), filepath.Join(srcDir, name)); err != nil {
			log.Warnf("Failed to copy %v: %v", name, err)
			r.CopyFailures = append(r.CopyFailures, name)
			continue
		}
		r.Picked = append(r.Picked, name)
	}
	log.Infof("%v images copied to %v", len(r.Picked), dstDir)
	return r, nil
}
