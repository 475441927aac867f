// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"errors"
	"fmt"
)

// Kind classifies why an export did not complete.
type Kind string

const (
	KindMetadataUnreadable Kind = "metadata-unreadable"
	KindFieldUnresolved    Kind = "field-unresolved"
	KindUnsafePathSegment  Kind = "unsafe-path-segment"
	KindDateParse          Kind = "date-parse-failure"
	KindNoSourceFile       Kind = "no-source-file"
	KindFilesystem         Kind = "filesystem-error"
)

// Error wraps a failure with the stage that produced it and its kind.
type Error struct {
	Op   string
	Kind Kind
	Path string // optional
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func fsError(op, path string, err error) error {
	return &Error{Op: op, Kind: KindFilesystem, Path: path, Err: err}
}
