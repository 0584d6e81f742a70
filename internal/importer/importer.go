// Package importer loads catalog files into Firestore, either from a local
// directory or from a Firebase Storage folder, and exports the live catalog
// back to Storage.
package importer

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/madspace-uw/madspace/internal/catalog"
	"github.com/madspace-uw/madspace/internal/types"
	"go.uber.org/zap"
)

// CatalogStore is implemented by *firebase.Firestore.
type CatalogStore interface {
	ImportCatalog(ctx context.Context, departments []types.Department, courses []types.Course) error
	ExportCatalog(ctx context.Context) ([]types.Department, []types.Course, error)
}

// Bucket is implemented by *firebase.CloudStorage.
type Bucket interface {
	DownloadFromFolder(ctx context.Context, folderPath, outputDir string) (int, error)
	UploadFile(ctx context.Context, path string, data []byte) error
}

// Result summarizes one import run.
type Result struct {
	Files       int
	Departments int
	Courses     int
	Warnings    []string
	DryRun      bool
}

type Service struct {
	store  CatalogStore
	bucket Bucket
	log    *zap.Logger
	now    func() time.Time
}

// NewService builds an importer. bucket may be nil when only local imports
// are needed.
func NewService(store CatalogStore, bucket Bucket, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		bucket: bucket,
		log:    log,
		now:    time.Now,
	}
}

// ImportDir reads every catalog file in dir and writes the merged result.
// With dryRun nothing is written.
func (s *Service) ImportDir(ctx context.Context, dir string, dryRun bool) (Result, error) {
	if isDirEmpty(dir) {
		return Result{}, fmt.Errorf("no catalog files in %s", dir)
	}

	cat, err := catalog.LoadDir(dir)
	if err != nil {
		return Result{}, err
	}

	for _, w := range cat.Warnings {
		s.log.Warn("catalog entry skipped", zap.String("reason", w))
	}

	result := Result{
		Files:       cat.Files,
		Departments: len(cat.Departments),
		Courses:     len(cat.Courses),
		Warnings:    cat.Warnings,
		DryRun:      dryRun,
	}

	if dryRun {
		s.log.Info("dry run, skipping Firestore writes",
			zap.Int("departments", result.Departments),
			zap.Int("courses", result.Courses),
		)
		return result, nil
	}

	if err := s.store.ImportCatalog(ctx, cat.Departments, cat.Courses); err != nil {
		return result, fmt.Errorf("failed to import catalog: %w", err)
	}

	s.log.Info("catalog imported",
		zap.Int("files", result.Files),
		zap.Int("departments", result.Departments),
		zap.Int("courses", result.Courses),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// ImportBucket downloads the files under prefix into a scratch directory,
// imports them and removes the scratch copy.
func (s *Service) ImportBucket(ctx context.Context, prefix string, dryRun bool) (Result, error) {
	if s.bucket == nil {
		return Result{}, fmt.Errorf("storage bucket is not configured")
	}

	workDir, err := os.MkdirTemp("", "madspace-catalog-")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer s.cleanup(workDir)

	count, err := s.bucket.DownloadFromFolder(ctx, prefix, workDir)
	if err != nil {
		return Result{}, err
	}
	if count == 0 {
		return Result{}, fmt.Errorf("no catalog files under %s", prefix)
	}

	return s.ImportDir(ctx, workDir, dryRun)
}

// Export writes the current Firestore catalog as JSON to prefix and returns
// the object path.
func (s *Service) Export(ctx context.Context, prefix string) (string, error) {
	if s.bucket == nil {
		return "", fmt.Errorf("storage bucket is not configured")
	}

	departments, courses, err := s.store.ExportCatalog(ctx)
	if err != nil {
		return "", err
	}

	data, err := catalog.Encode(departments, courses)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}

	object := path.Join(prefix, fmt.Sprintf("export-%s.json", s.now().UTC().Format("20060102-150405")))
	if err := s.bucket.UploadFile(ctx, object, data); err != nil {
		return "", err
	}

	s.log.Info("catalog exported", zap.String("object", object), zap.Int("courses", len(courses)))
	return object, nil
}

func isDirEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}
	return len(entries) == 0
}

func (s *Service) cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.log.Warn("failed to remove scratch directory", zap.String("dir", dir), zap.Error(err))
	}
}
