package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/chordist/chordist-backend/internal/platform/logger"
)

// FileStore persists uploaded audio under the upload dir. Artifact downloads
// have their own layout (ArtifactStore); this only handles user uploads.
type FileStore interface {
	SaveUpload(file *multipart.FileHeader) (path string, size int64, err error)
	Remove(path string) error
}

type localFileStore struct {
	baseDir string
	log     *logger.Logger
}

func NewLocalFileStore(baseDir string, log *logger.Logger) (FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localFileStore{
		baseDir: baseDir,
		log:     log.With("service", "FileStore"),
	}, nil
}

func (s *localFileStore) SaveUpload(file *multipart.FileHeader) (string, int64, error) {
	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.New().String() + ext
	destPath := filepath.Join(s.baseDir, name)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}
	written, err := io.Copy(dest, src)
	if cerr := dest.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(destPath)
		return "", 0, fmt.Errorf("write upload file: %w", err)
	}
	s.log.Debug("Stored upload", "path", destPath, "bytes", written)
	return destPath, written, nil
}

func (s *localFileStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
