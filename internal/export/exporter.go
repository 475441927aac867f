// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export copies a job's scanned PDF into the archival folder tree
// <root>/<today>/<publication code>/<document date>/<document date>_<NN>.pdf.
//
// Expected business failures (unreadable record, unresolved field, unusable
// code, missing PDF) end the call with Outcome.Success false and a problem
// message. Date parsing and filesystem failures are returned as *Error.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/pdiddy/pdf-folder-export/internal/datefmt"
	"github.com/pdiddy/pdf-folder-export/internal/logging"
	"github.com/pdiddy/pdf-folder-export/internal/metadata"
	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// Recorder receives an entry for every completed export.
type Recorder interface {
	Record(ctx context.Context, rec types.ExportRecord) error
}

// Exporter runs export calls. It keeps no state between calls.
type Exporter struct {
	cfg      types.ExportConfig
	fs       afero.Fs
	source   metadata.Source
	now      func() time.Time
	log      logging.Logger
	recorder Recorder
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithFs sets the filesystem (default: the OS filesystem).
func WithFs(fs afero.Fs) Option {
	return func(e *Exporter) { e.fs = fs }
}

// WithSource sets the metadata source (default: records read from the job's metadata file).
func WithSource(s metadata.Source) Option {
	return func(e *Exporter) { e.source = s }
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithLogger sets the logger (default: discard).
func WithLogger(l logging.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// WithRecorder registers a journal for completed exports.
func WithRecorder(r Recorder) Option {
	return func(e *Exporter) { e.recorder = r }
}

// New creates an Exporter. Empty configuration fields take their defaults.
func New(cfg types.ExportConfig, opts ...Option) *Exporter {
	e := &Exporter{
		cfg: cfg.WithDefaults(),
		fs:  afero.NewOsFs(),
		now: time.Now,
		log: logging.NoopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		e.source = metadata.FileSource{Fs: e.fs}
	}
	return e
}

// Export exports job using its import-images path as root, or the configured
// export folder when the job has none. The export plugin this tool replaces
// ignored its destination argument and always wrote under the export folder.
func (e *Exporter) Export(ctx context.Context, job types.Job) (types.Outcome, error) {
	return e.ExportTo(ctx, job, job.ImportImagesPath)
}

// ExportTo exports job under destination. An empty destination means the
// configured export folder.
func (e *Exporter) ExportTo(ctx context.Context, job types.Job, destination string) (types.Outcome, error) {
	root := destination
	if root == "" {
		root = e.cfg.ExportFolder
	}
	out := types.Outcome{Problems: []string{}}

	fail := func(kind Kind, problem string) (types.Outcome, error) {
		out.Success = false
		out.Kind = string(kind)
		out.Problems = append(out.Problems, problem)
		e.log.Warn("export aborted",
			logging.Int("process_id", job.ID),
			logging.String("kind", string(kind)),
			logging.String("problem", problem))
		return out, nil
	}
	abort := func(err error) (types.Outcome, error) {
		out.Success = false
		var ke *Error
		if errors.As(err, &ke) {
			out.Kind = string(ke.Kind)
		}
		e.log.Error("export failed", logging.Int("process_id", job.ID), logging.Err(err))
		return out, err
	}

	replacer, err := e.source.Open(job)
	if err != nil {
		e.log.Error("cannot read metadata", logging.Int("process_id", job.ID), logging.Err(err))
		return fail(KindMetadataUnreadable, "Cannot read metadata file.")
	}

	dateRaw := replacer.Replace(e.cfg.MetadataPublicationDate)
	if dateRaw == e.cfg.MetadataPublicationDate {
		return fail(KindFieldUnresolved, fmt.Sprintf("Metadata for publication date cannot be found (%s).", dateRaw))
	}
	code := replacer.Replace(e.cfg.MetadataPublicationCode)
	if code == e.cfg.MetadataPublicationCode {
		return fail(KindFieldUnresolved, fmt.Sprintf("Metadata for publication code cannot be found (%s).", code))
	}
	if err := CheckSegment(code); err != nil {
		return fail(KindUnsafePathSegment, fmt.Sprintf("Metadata for publication code cannot be used as folder name (%s): %v.", code, err))
	}

	tr, err := datefmt.NewTranslator(e.cfg.DateReadPattern, e.cfg.DateWritePattern)
	if err != nil {
		return abort(&Error{Op: "date.patterns", Kind: KindDateParse, Err: err})
	}
	pubDate, err := tr.Parse(dateRaw)
	if err != nil {
		return abort(&Error{Op: "date.parse", Kind: KindDateParse, Err: err})
	}
	docDate := tr.Format(pubDate)
	today := tr.Format(e.now())

	plan, err := PlanDestination(e.fs, root, today, code, docDate)
	if err != nil {
		return abort(err)
	}
	out.Folder = plan.Folder
	out.File = plan.File

	sourceDir := job.SourceDir()
	pdfs, err := ListFiles(e.fs, sourceDir, IsPDF)
	if err != nil {
		return abort(err)
	}
	if len(pdfs) == 0 {
		out.File = ""
		return fail(KindNoSourceFile, fmt.Sprintf("No PDF file found in folder %s to import.", sourceDir))
	}
	if len(pdfs) > 1 {
		e.log.Debug("several PDF files found, exporting the first",
			logging.String("folder", sourceDir), logging.Int("count", len(pdfs)))
	}

	if err := CopyFile(e.fs, pdfs[0], plan.File); err != nil {
		return abort(err)
	}

	out.Success = true
	e.log.Info("export executed",
		logging.Int("process_id", job.ID),
		logging.String("source", pdfs[0]),
		logging.String("file", plan.File))

	if e.recorder != nil {
		rec := types.ExportRecord{
			ProcessID:       job.ID,
			ProcessTitle:    job.Title,
			PublicationCode: code,
			PublicationDate: docDate,
			Source:          pdfs[0],
			Destination:     plan.File,
			ExportedAt:      e.now().UTC(),
		}
		if err := e.recorder.Record(ctx, rec); err != nil {
			e.log.Warn("journal write failed", logging.Int("process_id", job.ID), logging.Err(err))
		}
	}
	return out, nil
}
