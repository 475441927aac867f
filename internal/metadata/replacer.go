// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"strconv"
	"strings"

	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// Replacer resolves substitution tokens in a pattern. Tokens that cannot be
// resolved are left in the result verbatim.
type Replacer interface {
	Replace(pattern string) string
}

const (
	tokenOpen  = "$("
	tokenClose = ")"
)

// VariableReplacer resolves tokens against a record and its job:
//
//	$(meta.<Field>)            field of the top structural element
//	$(meta.topstruct.<Field>)  same, spelled explicitly
//	$(process.id)              job identifier
//	$(process.title)           job title
type VariableReplacer struct {
	rec *Record
	job types.Job
}

// NewVariableReplacer binds a replacer to rec and job.
func NewVariableReplacer(rec *Record, job types.Job) *VariableReplacer {
	return &VariableReplacer{rec: rec, job: job}
}

// Replace substitutes every resolvable token in pattern.
func (r *VariableReplacer) Replace(pattern string) string {
	if !strings.Contains(pattern, tokenOpen) {
		return pattern
	}

	var b strings.Builder
	b.Grow(len(pattern))

	rest := pattern
	for {
		start := strings.Index(rest, tokenOpen)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], tokenClose)
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start

		b.WriteString(rest[:start])
		name := rest[start+len(tokenOpen) : end]
		if v, ok := r.lookup(name); ok {
			b.WriteString(v)
		} else {
			b.WriteString(rest[start : end+len(tokenClose)])
		}
		rest = rest[end+len(tokenClose):]
	}
	return b.String()
}

func (r *VariableReplacer) lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	switch {
	case name == "process.id":
		return strconv.Itoa(r.job.ID), true
	case name == "process.title":
		return r.job.Title, r.job.Title != ""
	case strings.HasPrefix(name, "meta.topstruct."):
		return r.field(strings.TrimPrefix(name, "meta.topstruct."))
	case strings.HasPrefix(name, "meta."):
		return r.field(strings.TrimPrefix(name, "meta."))
	}
	return "", false
}

func (r *VariableReplacer) field(key string) (string, bool) {
	if r.rec == nil || key == "" {
		return "", false
	}
	v, ok := r.rec.Fields[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
