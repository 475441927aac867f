// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// IsPDF accepts file names ending in ".pdf", ignoring case.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), pdfExt)
}

// ListFiles returns the regular files in dir accepted by filter, in name order.
// A missing directory lists as empty.
func ListFiles(fs afero.Fs, dir string, filter func(name string) bool) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fsError("locate.list", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !filter(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// CopyFile copies src to dst byte for byte. dst must not exist; a partial
// destination is removed on failure and a failed removal is joined into the
// returned error.
func CopyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fsError("copy.open", src, err)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fsError("copy.create", dst, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fsError("copy.write", dst, errors.Join(copyErr, removePartial(fs, dst)))
	}
	if closeErr != nil {
		return fsError("copy.close", dst, errors.Join(closeErr, removePartial(fs, dst)))
	}
	return nil
}

func removePartial(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing partial file: %w", err)
	}
	return nil
}
