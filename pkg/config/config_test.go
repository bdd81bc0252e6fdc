package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cyclopcam/yoloset/pkg/dataset"
	"github.com/stretchr/testify/require"
)

func TestLoadSplitConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "split.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{
		"sources": [
			{"name": "main", "imagesDir": "/d/main/images", "labelsDir": "/d/main/labels", "active": true},
			{"name": "extra", "imagesDir": "/d/extra/images", "labelsDir": "/d/extra/labels"}
		],
		"null": {"name": "bg", "imagesDir": "/d/bg/images", "labelsDir": "/d/bg/labels", "active": true, "cap": 50},
		"ratios": {"train": 0.8, "valid": 0.1, "test": 0.1},
		"outputDir": "/d/out",
		"seed": 17
	}`), 0644))
	cfg, err := LoadSplitConfig(fn)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)
	require.True(t, cfg.Sources[0].Active)
	require.False(t, cfg.Sources[1].Active)
	require.Equal(t, 50, cfg.Null.Cap)
	require.Equal(t, "/d/bg/images", cfg.Null.ImagesDir)
	opt := cfg.Options()
	require.Equal(t, dataset.Ratios{Train: 0.8, Valid: 0.1, Test: 0.1}, opt.Ratios)
	require.Equal(t, uint64(17), opt.Seed)
	require.Equal(t, "/d/out", opt.OutputDir)
}

func TestLoadSplitConfigDefaults(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "split.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{"outputDir": "out"}`), 0644))
	cfg, err := LoadSplitConfig(fn)
	require.NoError(t, err)
	require.Equal(t, DefaultRatios, cfg.Ratios)
	require.Nil(t, cfg.Null)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSplitConfig(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	fn := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{"sets": [`), 0644))
	_, err = LoadConvertConfig(fn)
	require.Error(t, err)
}

func TestLoadConvertConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "convert.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{"sets": [
		{"name": "a", "active": true, "srcLabels": "s/l", "srcImages": "s/i", "dstLabels": "d/l", "dstImages": "d/i"},
		{"name": "b", "active": false}
	]}`), 0644))
	cfg, err := LoadConvertConfig(fn)
	require.NoError(t, err)
	require.Len(t, cfg.Sets, 2)
	require.Equal(t, "d/i", cfg.Sets[0].DstImages)
	require.False(t, cfg.Sets[1].Active)
}
