// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const pdfExt = ".pdf"

// Plan is the planned destination of one export.
type Plan struct {
	Folder   string
	File     string
	Sequence int
}

// FolderPath composes root/today/code/docDate.
func FolderPath(root, today, code, docDate string) string {
	return filepath.Join(root, today, code, docDate)
}

// FileName returns "<prefix>_<seq>.pdf" with seq zero-padded to two digits.
// Sequences of 100 and above keep their natural width.
func FileName(prefix string, seq int) string {
	return fmt.Sprintf("%s_%02d%s", prefix, seq, pdfExt)
}

// CheckSegment rejects a publication code that cannot be used verbatim as a
// single directory name.
func CheckSegment(code string) error {
	trimmed := strings.TrimSpace(code)
	switch {
	case trimmed == "":
		return fmt.Errorf("empty folder name")
	case trimmed == "." || trimmed == "..":
		return fmt.Errorf("%q is a relative path element", code)
	case strings.ContainsAny(code, `/\`+"\x00"):
		return fmt.Errorf("%q contains a path separator", code)
	}
	return nil
}

// PlanDestination creates the folder tree and finds the first sequence number
// whose file does not exist yet. The check is not atomic against other
// exporters; CopyFile refuses to overwrite a file that appeared meanwhile.
func PlanDestination(fs afero.Fs, root, today, code, docDate string) (Plan, error) {
	folder := FolderPath(root, today, code, docDate)
	if err := fs.MkdirAll(folder, 0o755); err != nil {
		return Plan{}, fsError("plan.mkdir", folder, err)
	}

	for seq := 1; ; seq++ {
		file := filepath.Join(folder, FileName(docDate, seq))
		exists, err := afero.Exists(fs, file)
		if err != nil {
			return Plan{}, fsError("plan.exists", file, err)
		}
		if !exists {
			return Plan{Folder: folder, File: file, Sequence: seq}, nil
		}
	}
}
