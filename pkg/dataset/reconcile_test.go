package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

func TestReconcileEndToEnd(t *testing.T) {
	log := logs.NewTestingLog(t)
	root := t.TempDir()
	imgDir := filepath.Join(root, "images")
	lblDir := filepath.Join(root, "labels")
	touch(t, imgDir, "a.jpg", "b.png", "c.jpg")
	touch(t, lblDir, "a.txt", "c.txt")

	orphans, err := SyncDirs(imgDir, lblDir, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, orphans.ImagesWithoutLabels)
	require.Equal(t, []string{}, orphans.LabelsWithoutImages)

	// Unconfirmed: report only
	r := Reconcile(log, orphans, false)
	require.False(t, r.Synchronized)
	require.Equal(t, 1, r.OrphanImages)
	require.Equal(t, []string{"b.png"}, r.PreviewImages)
	require.Equal(t, 0, r.RemovedImages)
	require.Equal(t, []string{"a.jpg", "b.png", "c.jpg"}, dirNames(t, imgDir))

	r = Reconcile(log, orphans, true)
	require.Equal(t, 1, r.RemovedImages)
	require.Equal(t, 0, r.RemovedLabels)
	require.Equal(t, 2, r.RemainingImages)
	require.Equal(t, 2, r.RemainingLabels)
	require.Empty(t, r.Failures)
	require.Equal(t, []string{"a.jpg", "c.jpg"}, dirNames(t, imgDir))
	require.Equal(t, []string{"a.txt", "c.txt"}, dirNames(t, lblDir))

	// A second pass finds nothing to do
	orphans, err = SyncDirs(imgDir, lblDir, nil)
	require.NoError(t, err)
	require.True(t, orphans.Empty())
	r = Reconcile(log, orphans, true)
	require.True(t, r.Synchronized)
	require.Equal(t, 0, r.RemovedImages+r.RemovedLabels)
}

func TestReconcileSetDifference(t *testing.T) {
	log := logs.NewTestingLog(t)
	root := t.TempDir()
	imgDir := filepath.Join(root, "images")
	lblDir := filepath.Join(root, "labels")
	imgs := []string{}
	lbls := []string{}
	// images 0..29, labels 20..44
	for i := 0; i < 30; i++ {
		imgs = append(imgs, fmt.Sprintf("f%02d.jpg", i))
	}
	for i := 20; i < 45; i++ {
		lbls = append(lbls, fmt.Sprintf("f%02d.txt", i))
	}
	touch(t, imgDir, imgs...)
	touch(t, lblDir, lbls...)

	orphans, err := SyncDirs(imgDir, lblDir, []string{".txt"})
	require.NoError(t, err)
	require.Len(t, orphans.ImagesWithoutLabels, 20)
	require.Len(t, orphans.LabelsWithoutImages, 15)
	require.Equal(t, "f00", orphans.ImagesWithoutLabels[0])

	pi, pl := orphans.Preview(PreviewLength)
	require.Len(t, pi, 10)
	require.Len(t, pl, 10)
	require.Equal(t, "f09.jpg", pi[9])
	require.Equal(t, "f30.txt", pl[0])

	r := Reconcile(log, orphans, true)
	require.Equal(t, 20, r.RemovedImages)
	require.Equal(t, 15, r.RemovedLabels)
	require.Equal(t, 10, r.RemainingImages)
	require.Equal(t, 10, r.RemainingLabels)
	require.Len(t, dirNames(t, imgDir), 10)
	require.Len(t, dirNames(t, lblDir), 10)
}

func TestReconcileRemovesShadowedDuplicates(t *testing.T) {
	log := logs.NewTestingLog(t)
	root := t.TempDir()
	imgDir := filepath.Join(root, "images")
	lblDir := filepath.Join(root, "labels")
	touch(t, imgDir, "a.jpg", "x.jpg", "x.png")
	touch(t, lblDir, "a.txt")

	orphans, err := SyncDirs(imgDir, lblDir, nil)
	require.NoError(t, err)
	r := Reconcile(log, orphans, true)
	require.Equal(t, 2, r.RemovedImages)
	require.Equal(t, []string{"a.jpg"}, dirNames(t, imgDir))
}

func TestReconcileContinuesAfterFailure(t *testing.T) {
	log := logs.NewTestingLog(t)
	root := t.TempDir()
	imgDir := filepath.Join(root, "images")
	lblDir := filepath.Join(root, "labels")
	touch(t, imgDir, "a.jpg", "b.jpg", "c.jpg")
	touch(t, lblDir, "c.txt")

	orphans, err := SyncDirs(imgDir, lblDir, nil)
	require.NoError(t, err)
	// Someone else deletes 'a' between the scan and the deletion
	require.NoError(t, os.Remove(filepath.Join(imgDir, "a.jpg")))
	r := Reconcile(log, orphans, true)
	require.Equal(t, 1, r.RemovedImages)
	require.Equal(t, 1, r.VanishedFiles)
	require.Equal(t, []string{"c.jpg"}, dirNames(t, imgDir))
}

func TestSyncDirsMissing(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "images"), "a.jpg")
	_, err := SyncDirs(filepath.Join(root, "images"), filepath.Join(root, "labels"), nil)
	require.ErrorIs(t, err, ErrDirectoryNotFound)
}

func TestReconcileCountsFailedDeletes(t *testing.T) {
	log := logs.NewTestingLog(t)
	root := t.TempDir()
	imgDir := filepath.Join(root, "images")
	lblDir := filepath.Join(root, "labels")
	touch(t, imgDir, "a.jpg", "b.jpg", "c.jpg", "d.jpg")
	touch(t, lblDir, "d.txt")

	orphans, err := SyncDirs(imgDir, lblDir, nil)
	require.NoError(t, err)
	// b.jpg turns into a non-empty directory, which os.Remove refuses to delete
	bad := filepath.Join(imgDir, "b.jpg")
	require.NoError(t, os.Remove(bad))
	touch(t, bad, "x")

	r := Reconcile(log, orphans, true)
	require.Equal(t, 2, r.RemovedImages)
	require.Equal(t, 0, r.VanishedFiles)
	require.Equal(t, []string{bad}, r.Failures)
	require.Equal(t, 2, r.RemainingImages)
	require.Equal(t, []string{"b.jpg", "d.jpg"}, dirNames(t, imgDir))
}
