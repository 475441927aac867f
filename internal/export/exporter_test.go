// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-folder-export/internal/metadata"
	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

// --- test helpers ---

const (
	testProcessDir = "/goobi/metadata/42"
	testSourceDir  = "/goobi/metadata/42/images/orig_paper_2023_media"
	defaultFolder  = "/opt/digiverso/export/05072023/NEWS/04072023"
	fakePDF        = "%PDF-1.4 fake"
)

func fixedNow() time.Time {
	return time.Date(2023, 7, 5, 10, 30, 0, 0, time.UTC)
}

func testJob() types.Job {
	return types.Job{ID: 42, Title: "paper_2023", ProcessDir: testProcessDir}
}

func writeRecord(t *testing.T, fs afero.Fs, fields map[string]string) {
	t.Helper()
	content := "metadata:\n"
	for k, v := range fields {
		content += fmt.Sprintf("  %s: %q\n", k, v)
	}
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testProcessDir, "meta.yaml"), []byte(content), 0o644))
}

func writeSource(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(testSourceDir, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testSourceDir, name), []byte(content), 0o644))
}

// testSetup builds an in-memory workspace with a record resolving to
// 2023-07-04 / NEWS and one PDF in the master folder.
func testSetup(t *testing.T) (afero.Fs, *Exporter) {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeRecord(t, fs, map[string]string{"DateOfOrigin": "2023-07-04", "Type": "NEWS"})
	writeSource(t, fs, "paper_2023.pdf", fakePDF)
	return fs, New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))
}

func assertNoExportRoot(t *testing.T, fs afero.Fs) {
	t.Helper()
	exists, err := afero.DirExists(fs, "/opt")
	require.NoError(t, err)
	assert.False(t, exists, "no destination directories expected")
}

type stubSource struct {
	replacer metadata.Replacer
	err      error
}

func (s stubSource) Open(types.Job) (metadata.Replacer, error) { return s.replacer, s.err }

// echoReplacer resolves nothing.
type echoReplacer struct{}

func (echoReplacer) Replace(p string) string { return p }

type recorderFunc func(ctx context.Context, rec types.ExportRecord) error

func (f recorderFunc) Record(ctx context.Context, rec types.ExportRecord) error { return f(ctx, rec) }

// --- scenarios ---

func TestExportDefaultConfiguration(t *testing.T) {
	fs, exp := testSetup(t)

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Empty(t, out.Problems)
	assert.Equal(t, defaultFolder, out.Folder)
	assert.Equal(t, filepath.Join(defaultFolder, "04072023_01.pdf"), out.File)

	data, err := afero.ReadFile(fs, out.File)
	require.NoError(t, err)
	assert.Equal(t, fakePDF, string(data))
}

func TestExportPicksNextFreeName(t *testing.T) {
	fs, exp := testSetup(t)
	require.NoError(t, fs.MkdirAll(defaultFolder, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(defaultFolder, "04072023_01.pdf"), []byte("old"), 0o644))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	require.True(t, out.Success)
	assert.Equal(t, filepath.Join(defaultFolder, "04072023_02.pdf"), out.File)

	old, err := afero.ReadFile(fs, filepath.Join(defaultFolder, "04072023_01.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old), "existing file must not be overwritten")
}

func TestExportTwiceCreatesSequence(t *testing.T) {
	_, exp := testSetup(t)

	for i := 1; i <= 3; i++ {
		out, err := exp.Export(context.Background(), testJob())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(defaultFolder, fmt.Sprintf("04072023_%02d.pdf", i)), out.File)
	}
}

func TestExportNoSourcePDF(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRecord(t, fs, map[string]string{"DateOfOrigin": "2023-07-04", "Type": "NEWS"})
	writeSource(t, fs, "page_0001.tif", "II*")
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Equal(t, string(KindNoSourceFile), out.Kind)
	require.Len(t, out.Problems, 1)
	assert.Contains(t, out.Problems[0], testSourceDir)
	assert.Empty(t, out.File)

	exists, err := afero.DirExists(fs, defaultFolder)
	require.NoError(t, err)
	assert.True(t, exists, "folder tree is created before the source is located")
	entries, err := afero.ReadDir(fs, defaultFolder)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportMissingSourceFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRecord(t, fs, map[string]string{"DateOfOrigin": "2023-07-04", "Type": "NEWS"})
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, string(KindNoSourceFile), out.Kind)
}

func TestExportUnresolvedFields(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantMsg string
	}{
		{"code missing", map[string]string{"DateOfOrigin": "2023-07-04"}, "publication code"},
		{"date missing", map[string]string{"Type": "NEWS"}, "publication date"},
		{"both missing", map[string]string{"Other": "x"}, "publication date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeRecord(t, fs, tt.fields)
			writeSource(t, fs, "paper.pdf", fakePDF)
			exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))

			out, err := exp.Export(context.Background(), testJob())
			require.NoError(t, err)
			assert.False(t, out.Success)
			assert.Equal(t, string(KindFieldUnresolved), out.Kind)
			require.Len(t, out.Problems, 1)
			assert.Contains(t, out.Problems[0], tt.wantMsg)
			assertNoExportRoot(t, fs)
		})
	}
}

func TestExportUnresolvedTokenFromSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow), WithSource(stubSource{replacer: echoReplacer{}}))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, []string{"Metadata for publication date cannot be found ($(meta.DateOfOrigin))."}, out.Problems)
	assertNoExportRoot(t, fs)
}

func TestExportMetadataUnreadable(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSource(t, fs, "paper.pdf", fakePDF)
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, string(KindMetadataUnreadable), out.Kind)
	assert.Equal(t, []string{"Cannot read metadata file."}, out.Problems)
	assertNoExportRoot(t, fs)
}

func TestExportDateParseFailureIsFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRecord(t, fs, map[string]string{"DateOfOrigin": "04.07.2023", "Type": "NEWS"})
	writeSource(t, fs, "paper.pdf", fakePDF)
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))

	out, err := exp.Export(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDateParse))
	assert.False(t, out.Success)
	assert.Empty(t, out.Problems)
	assertNoExportRoot(t, fs)
}

func TestExportInvalidPatternIsFatal(t *testing.T) {
	fs, _ := testSetup(t)
	exp := New(types.ExportConfig{DateWritePattern: "ddMMyyyy HH"}, WithFs(fs), WithNow(fixedNow))

	_, err := exp.Export(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDateParse))
}

func TestExportRejectsUnsafeCode(t *testing.T) {
	for _, code := range []string{"../etc", "NEWS/EXTRA", "..", "  "} {
		t.Run(code, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeRecord(t, fs, map[string]string{"DateOfOrigin": "2023-07-04", "Type": code})
			writeSource(t, fs, "paper.pdf", fakePDF)
			exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))

			out, err := exp.Export(context.Background(), testJob())
			require.NoError(t, err)
			assert.False(t, out.Success)
			assert.Equal(t, string(KindUnsafePathSegment), out.Kind)
			require.Len(t, out.Problems, 1)
			assert.Contains(t, out.Problems[0], "publication code")
			assertNoExportRoot(t, fs)
		})
	}
}

func TestExportDestinations(t *testing.T) {
	t.Run("explicit destination overrides export folder", func(t *testing.T) {
		_, exp := testSetup(t)
		out, err := exp.ExportTo(context.Background(), testJob(), "/mnt/archive")
		require.NoError(t, err)
		assert.Equal(t, "/mnt/archive/05072023/NEWS/04072023/04072023_01.pdf", out.File)
	})

	t.Run("empty destination uses export folder", func(t *testing.T) {
		_, exp := testSetup(t)
		out, err := exp.ExportTo(context.Background(), testJob(), "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(defaultFolder, "04072023_01.pdf"), out.File)
	})

	t.Run("implicit destination uses job import path", func(t *testing.T) {
		_, exp := testSetup(t)
		job := testJob()
		job.ImportImagesPath = "/dms/import"
		out, err := exp.Export(context.Background(), job)
		require.NoError(t, err)
		assert.Equal(t, "/dms/import/05072023/NEWS/04072023/04072023_01.pdf", out.File)
	})

	t.Run("configured export folder and patterns", func(t *testing.T) {
		fs, _ := testSetup(t)
		cfg := types.ExportConfig{
			ExportFolder:     "/srv/out",
			DateWritePattern: "yyyyMMdd",
		}
		exp := New(cfg, WithFs(fs), WithNow(fixedNow))
		out, err := exp.Export(context.Background(), testJob())
		require.NoError(t, err)
		assert.Equal(t, "/srv/out/20230705/NEWS/20230704/20230704_01.pdf", out.File)
	})

	t.Run("underscore write pattern", func(t *testing.T) {
		fs, _ := testSetup(t)
		cfg := types.ExportConfig{
			ExportFolder:     "/srv/out",
			DateWritePattern: "yyyy_M_d",
		}
		exp := New(cfg, WithFs(fs), WithNow(fixedNow))
		out, err := exp.Export(context.Background(), testJob())
		require.NoError(t, err)
		assert.Equal(t, "/srv/out/2023_7_5/NEWS/2023_7_4/2023_7_4_01.pdf", out.File)
	})
}

func TestExportSelectsFirstPDF(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRecord(t, fs, map[string]string{"DateOfOrigin": "2023-07-04", "Type": "NEWS"})
	writeSource(t, fs, "b.pdf", "second")
	writeSource(t, fs, "A.PDF", "first")
	writeSource(t, fs, "0001.tif", "image")
	require.NoError(t, fs.MkdirAll(filepath.Join(testSourceDir, "a.pdf"), 0o755))
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	require.True(t, out.Success)

	data, err := afero.ReadFile(fs, out.File)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestExportRecordsJournalEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRecord(t, fs, map[string]string{"DateOfOrigin": "2023-07-04", "Type": "NEWS"})
	writeSource(t, fs, "paper.pdf", fakePDF)

	var got []types.ExportRecord
	rec := recorderFunc(func(_ context.Context, r types.ExportRecord) error {
		got = append(got, r)
		return nil
	})
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow), WithRecorder(rec))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 42, got[0].ProcessID)
	assert.Equal(t, "paper_2023", got[0].ProcessTitle)
	assert.Equal(t, "NEWS", got[0].PublicationCode)
	assert.Equal(t, "04072023", got[0].PublicationDate)
	assert.Equal(t, filepath.Join(testSourceDir, "paper.pdf"), got[0].Source)
	assert.Equal(t, out.File, got[0].Destination)
	assert.True(t, got[0].ExportedAt.Equal(fixedNow()))
}

func TestExportIgnoresJournalFailure(t *testing.T) {
	fs, _ := testSetup(t)
	rec := recorderFunc(func(context.Context, types.ExportRecord) error { return errors.New("disk full") })
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow), WithRecorder(rec))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestExportNotRecordedOnFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRecord(t, fs, map[string]string{"DateOfOrigin": "2023-07-04", "Type": "NEWS"})
	called := false
	rec := recorderFunc(func(context.Context, types.ExportRecord) error { called = true; return nil })
	exp := New(types.ExportConfig{}, WithFs(fs), WithNow(fixedNow), WithRecorder(rec))

	out, err := exp.Export(context.Background(), testJob())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.False(t, called)
}

func TestExportFilesystemFailure(t *testing.T) {
	fs, _ := testSetup(t)
	exp := New(types.ExportConfig{}, WithFs(afero.NewReadOnlyFs(fs)), WithNow(fixedNow))

	out, err := exp.Export(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindFilesystem))
	assert.False(t, out.Success)
	assert.Empty(t, out.Problems)
}

func TestErrorFormatting(t *testing.T) {
	root := errors.New("permission denied")
	err := error(&Error{Op: "copy.create", Kind: KindFilesystem, Path: "/x.pdf", Err: root})

	assert.Equal(t, "copy.create: filesystem-error (path=/x.pdf): permission denied", err.Error())
	assert.True(t, errors.Is(err, root))
	assert.True(t, IsKind(fmt.Errorf("wrapped: %w", err), KindFilesystem))
	assert.False(t, IsKind(root, KindFilesystem))
}
