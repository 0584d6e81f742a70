package firebase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	goStorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

const maxDownloadWorkers = 5

// CloudStorage reads and writes catalog snapshots in Firebase Storage.
type CloudStorage struct {
	*storage.Client
	bucket string
	log    *zap.Logger
}

func NewCloudStorage(ctx context.Context, app *firebase.App, bucket string, log *zap.Logger) (*CloudStorage, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET is required for cloud storage")
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	return &CloudStorage{
		Client: client,
		bucket: bucket,
		log:    log,
	}, nil
}

func (s *CloudStorage) bucketHandle() (*goStorage.BucketHandle, error) {
	bucket, err := s.Bucket(s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage bucket '%s': %w", s.bucket, err)
	}
	return bucket, nil
}

func (s *CloudStorage) UploadFile(ctx context.Context, path string, data []byte) error {
	if err := validateUpload(path, data); err != nil {
		return fmt.Errorf("upload validation failed: %w", err)
	}

	bucket, err := s.bucketHandle()
	if err != nil {
		return err
	}

	writer := bucket.Object(path).NewWriter(ctx)
	writer.ObjectAttrs.ContentType = detectContentType(path)
	writer.ObjectAttrs.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": uuid.New().String(),
	}

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload file data: %w", err)
	}

	// the object is only committed on Close
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload of %s: %w", path, err)
	}

	s.log.Info("uploaded object", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

type objectInfo struct {
	name string
	size int64
}

// DownloadFromFolder copies every object under folderPath into outputDir,
// keeping paths relative to the folder.
func (s *CloudStorage) DownloadFromFolder(ctx context.Context, folderPath, outputDir string) (int, error) {
	bucket, err := s.bucketHandle()
	if err != nil {
		return 0, err
	}

	folderPath = folderPrefix(folderPath)

	var objects []objectInfo
	it := bucket.Objects(ctx, &goStorage.Query{Prefix: folderPath})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to iterate objects: %w", err)
		}

		// Skip directories (objects ending with '/')
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		objects = append(objects, objectInfo{attrs.Name, attrs.Size})
	}

	if len(objects) == 0 {
		s.log.Warn("no files found in folder", zap.String("folder", folderPath))
		return 0, nil
	}

	s.log.Info("downloading catalog files", zap.Int("count", len(objects)), zap.String("folder", folderPath))

	work := make(chan objectInfo, len(objects))
	errs := make(chan error, len(objects))
	done := make(chan string, len(objects))

	for i := 0; i < maxDownloadWorkers && i < len(objects); i++ {
		go s.downloadWorker(ctx, bucket, outputDir, folderPath, work, errs, done)
	}

	for _, obj := range objects {
		work <- obj
	}
	close(work)

	var failures []error
	count := 0
	for i := 0; i < len(objects); i++ {
		select {
		case err := <-errs:
			failures = append(failures, err)
		case name := <-done:
			s.log.Debug("downloaded object", zap.String("name", name))
			count++
		}
	}

	if len(failures) > 0 {
		return count, fmt.Errorf("failed to download %d files: %w", len(failures), failures[0])
	}

	return count, nil
}

func (s *CloudStorage) downloadWorker(ctx context.Context, bucket *goStorage.BucketHandle, outputDir, folderPath string, work <-chan objectInfo, errs chan<- error, done chan<- string) {
	for obj := range work {
		if err := downloadSingleFile(ctx, bucket, obj.name, outputDir, folderPath); err != nil {
			errs <- fmt.Errorf("failed to download %s: %w", obj.name, err)
		} else {
			done <- obj.name
		}
	}
}

func downloadSingleFile(ctx context.Context, bucket *goStorage.BucketHandle, objectName, outputDir, folderPath string) error {
	reader, err := bucket.Object(objectName).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read object data: %w", err)
	}

	filePath, err := localPath(objectName, folderPath, outputDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filePath, err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	return nil
}

// folderPrefix makes a folder name end in "/" so "catalog" does not also
// match "catalog2/...". An empty folder means the whole bucket.
func folderPrefix(folderPath string) string {
	folderPath = strings.Trim(strings.TrimSpace(folderPath), "/")
	if folderPath == "" {
		return ""
	}
	return folderPath + "/"
}

// localPath maps an object name under folderPath to a file under outputDir.
func localPath(objectName, folderPath, outputDir string) (string, error) {
	prefix := folderPrefix(folderPath)
	if !strings.HasPrefix(objectName, prefix) {
		return "", fmt.Errorf("object %s is outside folder %s", objectName, prefix)
	}
	relative := strings.TrimPrefix(objectName, prefix)
	if relative == "" || strings.Contains(relative, "..") {
		return "", fmt.Errorf("invalid object path: %s", objectName)
	}
	return filepath.Join(outputDir, filepath.FromSlash(relative)), nil
}

func validateUpload(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	if len(data) == 0 {
		return fmt.Errorf("file data cannot be empty")
	}

	if strings.Contains(path, "..") || strings.Contains(path, "//") {
		return fmt.Errorf("invalid file path: contains unsafe characters")
	}

	return nil
}

func detectContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".csv":
		return "text/csv"
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
