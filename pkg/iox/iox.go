package iox

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrSameFile is returned by CopyFile when the destination is the source itself
var ErrSameFile = errors.New("Source and destination are the same file")

// WriteStreamToFile writes src to dstFilename. On failure, the partial file is removed.
func WriteStreamToFile(dstFilename string, src io.Reader) error {
	dstFile, err := os.Create(dstFilename)
	if err != nil {
		return err
	}
	_, err = io.Copy(dstFile, src)
	if closeErr := dstFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dstFilename)
		return err
	}
	return nil
}

// CopyFile copies src to dst, overwriting dst, and carries over the permission bits
// and modification time of src. The source is never modified: if dst resolves to
// the same file as src, ErrSameFile is returned before anything is opened for writing.
func CopyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	st, err := in.Stat()
	if err != nil {
		return err
	}
	if dstSt, err := os.Stat(dst); err == nil && os.SameFile(st, dstSt) {
		return fmt.Errorf("%w: %v", ErrSameFile, src)
	}
	if err := WriteStreamToFile(dst, in); err != nil {
		return err
	}
	if err := os.Chmod(dst, st.Mode().Perm()); err != nil {
		return fmt.Errorf("Failed to set permissions of %v: %w", dst, err)
	}
	if err := os.Chtimes(dst, st.ModTime(), st.ModTime()); err != nil {
		return fmt.Errorf("Failed to set modification time of %v: %w", dst, err)
	}
	return nil
}
