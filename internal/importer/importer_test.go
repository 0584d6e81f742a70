package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/madspace-uw/madspace/internal/catalog"
	"github.com/madspace-uw/madspace/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	departments []types.Department
	courses     []types.Course
	imports     int
}

func (f *fakeStore) ImportCatalog(_ context.Context, departments []types.Department, courses []types.Course) error {
	f.imports++
	f.departments = departments
	f.courses = courses
	return nil
}

func (f *fakeStore) ExportCatalog(context.Context) ([]types.Department, []types.Course, error) {
	return f.departments, f.courses, nil
}

// fakeBucket serves files from memory and records uploads.
type fakeBucket struct {
	objects  map[string]string
	uploaded map[string][]byte
	err      error
}

func (f *fakeBucket) DownloadFromFolder(_ context.Context, folderPath, outputDir string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for name, content := range f.objects {
		rel, err := filepath.Rel(folderPath, name)
		if err != nil {
			return count, err
		}
		target := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return count, err
		}
		if err := os.WriteFile(target, []byte(content), 0644); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (f *fakeBucket) UploadFile(_ context.Context, path string, data []byte) error {
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[path] = data
	return nil
}

const catalogYAML = `
departments:
  - code: MATH
    name: Mathematics
courses:
  - code: math 521
    name: Analysis I
  - code: nonsense
    name: Broken
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(catalogYAML), 0644))
	return dir
}

func TestImportDir(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil, zap.NewNop())

	result, err := svc.ImportDir(context.Background(), writeCatalog(t), false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.Departments)
	assert.Equal(t, 1, result.Courses)
	assert.Len(t, result.Warnings, 1)

	require.Len(t, store.courses, 1)
	assert.Equal(t, "MATH 521", store.courses[0].Code)
	assert.Equal(t, 521, store.courses[0].Number)
}

func TestImportDirDryRun(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil, zap.NewNop())

	result, err := svc.ImportDir(context.Background(), writeCatalog(t), true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 0, store.imports)
}

func TestImportDirEmpty(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, zap.NewNop())

	_, err := svc.ImportDir(context.Background(), t.TempDir(), false)
	assert.Error(t, err)
}

func TestImportBucket(t *testing.T) {
	store := &fakeStore{}
	bucket := &fakeBucket{objects: map[string]string{
		"catalog/2026/fall.yaml": catalogYAML,
	}}
	svc := NewService(store, bucket, zap.NewNop())

	result, err := svc.ImportBucket(context.Background(), "catalog", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Courses)
	assert.Equal(t, 1, store.imports)
}

func TestImportBucketFailures(t *testing.T) {
	_, err := NewService(&fakeStore{}, nil, zap.NewNop()).ImportBucket(context.Background(), "catalog", false)
	assert.Error(t, err)

	empty := NewService(&fakeStore{}, &fakeBucket{}, zap.NewNop())
	_, err = empty.ImportBucket(context.Background(), "catalog", false)
	assert.Error(t, err)

	broken := NewService(&fakeStore{}, &fakeBucket{err: errors.New("bucket offline")}, zap.NewNop())
	_, err = broken.ImportBucket(context.Background(), "catalog", false)
	assert.ErrorContains(t, err, "bucket offline")
}

func TestExport(t *testing.T) {
	store := &fakeStore{
		departments: []types.Department{{Code: "MATH", Name: "Mathematics"}},
		courses:     []types.Course{{Code: "MATH 521", Name: "Analysis I"}},
	}
	bucket := &fakeBucket{}
	svc := NewService(store, bucket, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) }

	object, err := svc.Export(context.Background(), "exports")
	require.NoError(t, err)
	assert.Equal(t, "exports/export-20261019-083000.json", object)

	f, err := catalog.Decode(object, bucket.uploaded[object])
	require.NoError(t, err)
	require.Len(t, f.Courses, 1)
	assert.Equal(t, "MATH 521", f.Courses[0].Code)
}
