package transactions

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// Source is a transaction loader bound to one configured location
type Source interface {
	domain.TransactionLoader
	Name() string
	Close() error
}

// CSVSource yields the raw export bytes for a CSV loader
type CSVSource interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Options configures source construction
type Options struct {
	Location *time.Location // export clock for timestamps without an offset
	S3       S3Options
}

// Open resolves a source URI by scheme:
//   - plain path or file://path - local CSV export
//   - s3://bucket/key - CSV export stored in S3 (or an S3-compatible store)
//   - sqlite://path - transactions table in a SQLite ledger
//   - postgres://... or postgresql://... - transactions table in PostgreSQL
func Open(ctx context.Context, uri string, opts Options, log zerolog.Logger) (Source, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("transaction source is not configured")
	}

	switch {
	case strings.HasPrefix(uri, "s3://"):
		bucket, key, err := parseS3URI(uri)
		if err != nil {
			return nil, err
		}
		downloader, err := NewS3Downloader(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		return NewCSVLoader(NewS3Source(downloader, bucket, key), opts.Location, log), nil

	case strings.HasPrefix(uri, "sqlite://"):
		return NewSQLiteSource(strings.TrimPrefix(uri, "sqlite://"), opts.Location, log), nil

	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return NewPostgresSource(ctx, uri, log)

	default:
		return NewCSVLoader(NewFileSource(strings.TrimPrefix(uri, "file://")), opts.Location, log), nil
	}
}

func parseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 uri %q: %w", uri, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: want s3://bucket/key", uri)
	}
	return bucket, key, nil
}

// CSVLoader parses a CSV export fetched from a CSVSource on every Load
type CSVLoader struct {
	source   CSVSource
	location *time.Location
	log      zerolog.Logger
}

// NewCSVLoader creates a loader over a CSV source
func NewCSVLoader(source CSVSource, location *time.Location, log zerolog.Logger) *CSVLoader {
	if location == nil {
		location = time.UTC
	}
	return &CSVLoader{
		source:   source,
		location: location,
		log:      log.With().Str("source", source.Name()).Logger(),
	}
}

// Name identifies the underlying source
func (l *CSVLoader) Name() string { return l.source.Name() }

// Load reads and normalizes the whole export
func (l *CSVLoader) Load(ctx context.Context) ([]domain.Transaction, error) {
	rc, err := l.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	txs, err := ParseCSV(rc, l.location)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.source.Name(), err)
	}

	l.log.Debug().Int("transactions", len(txs)).Msg("Loaded transactions")
	return txs, nil
}

// Close is a no-op; CSV sources hold nothing open between cycles
func (l *CSVLoader) Close() error { return nil }
