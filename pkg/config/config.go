package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cyclopcam/yoloset/pkg/dataset"
)

// SplitConfig describes a train/valid/test split.
// Example:
//
//	{
//	  "sources": [
//	    {"name": "main", "imagesDir": "/data/main/images", "labelsDir": "/data/main/labels", "active": true},
//	    {"name": "extra1", "imagesDir": "/data/extra1/images", "labelsDir": "/data/extra1/labels", "active": false}
//	  ],
//	  "null": {"name": "background", "imagesDir": "/data/null/images", "labelsDir": "/data/null/labels", "active": true, "cap": 500},
//	  "ratios": {"train": 0.7, "valid": 0.2, "test": 0.1},
//	  "outputDir": "/data/split",
//	  "seed": 0
//	}
type SplitConfig struct {
	Sources   []dataset.Source    `json:"sources"`
	Null      *dataset.NullSource `json:"null"`      // Optional background images
	Ratios    dataset.Ratios      `json:"ratios"`    // Must sum to 1
	OutputDir string              `json:"outputDir"` // Receives train/, valid/, test/
	Seed      uint64              `json:"seed"`      // 0 = random
}

// Options converts the config into the form that dataset.SplitDataset wants
func (c *SplitConfig) Options() dataset.SplitOptions {
	return dataset.SplitOptions{
		Sources:   c.Sources,
		Null:      c.Null,
		Ratios:    c.Ratios,
		OutputDir: c.OutputDir,
		Seed:      c.Seed,
	}
}

// DefaultRatios are used when the config file does not specify any
var DefaultRatios = dataset.Ratios{Train: 0.7, Valid: 0.2, Test: 0.1}

// ConvertConfig lists the segmentation datasets to convert to bounding boxes
type ConvertConfig struct {
	Sets []dataset.ConvertSet `json:"sets"`
}

func loadJSON(filename string, dst any) error {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("Error loading %v: %w", filename, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	return nil
}

func LoadSplitConfig(filename string) (*SplitConfig, error) {
	cfg := &SplitConfig{}
	if err := loadJSON(filename, cfg); err != nil {
		return nil, err
	}
	if cfg.Ratios == (dataset.Ratios{}) {
		cfg.Ratios = DefaultRatios
	}
	return cfg, nil
}

func LoadConvertConfig(filename string) (*ConvertConfig, error) {
	cfg := &ConvertConfig{}
	if err := loadJSON(filename, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
