package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner interface for filesystem scanning
type FileSystemScanner struct {
	ext string
}

// NewFileSystemScanner creates a new filesystem scanner matching files with ext
func NewFileSystemScanner(ext string) *FileSystemScanner {
	return &FileSystemScanner{ext: ext}
}

// Scan recursively scans a directory for record files.
// Files are returned in lexical path order. A directory that does not
// exist holds zero records.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string, kind RecordKind) ([]SourceFile, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			logrus.Debugf("Directory %s does not exist, no %s records", dir, kind)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	var files []SourceFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}

		if !IsSourceFile(path, s.ext) {
			return nil
		}

		logrus.Debugf("Found %s record: %s", kind, path)

		files = append(files, SourceFile{
			Path: path,
			Kind: kind,
			Size: info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Debugf("Found %d %s records in %s", len(files), kind, dir)
	return files, nil
}
