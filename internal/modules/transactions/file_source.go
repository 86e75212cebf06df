package transactions

import (
	"context"
	"io"
	"os"

	"github.com/aristath/folio/internal/domain"
)

// FileSource reads the export from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed CSV source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

// Open opens the export. Any failure, including a missing file, is ErrSourceUnavailable.
func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &domain.SourceError{Source: s.path, Err: err}
	}
	return f, nil
}
