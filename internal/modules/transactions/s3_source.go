package transactions

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aristath/folio/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures access to the bucket holding the export.
// Endpoint is set for S3-compatible stores such as R2 or MinIO.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// ObjectDownloader is the part of manager.Downloader the S3 source uses
type ObjectDownloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// NewS3Downloader builds a downloader from the default AWS credential chain,
// or from static keys when they are configured.
func NewS3Downloader(ctx context.Context, opts S3Options) (*manager.Downloader, error) {
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return manager.NewDownloader(client), nil
}

// S3Source downloads the export object once per Open
type S3Source struct {
	downloader ObjectDownloader
	bucket     string
	key        string
}

// NewS3Source creates an S3-backed CSV source
func NewS3Source(downloader ObjectDownloader, bucket, key string) *S3Source {
	return &S3Source{downloader: downloader, bucket: bucket, key: key}
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

// Open downloads the object. Any download failure is ErrSourceUnavailable.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, &domain.SourceError{Source: s.Name(), Err: err}
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}
