package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-mepflow/pkg/logging"
	"github.com/dd0wney/cluso-mepflow/pkg/metrics"
)

// ObjectPutter is the part of the S3 client the uploader needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploadOptions configures the S3 uploader. Empty credentials fall back to
// the default AWS credential chain.
type UploadOptions struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
}

// Uploader copies a finished export file to object storage
type Uploader struct {
	client  ObjectPutter
	bucket  string
	prefix  string
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewS3Uploader builds an uploader backed by an S3 client
func NewS3Uploader(ctx context.Context, opts UploadOptions, logger logging.Logger, reg *metrics.Registry) (*Uploader, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return NewUploader(client, opts.Bucket, opts.Prefix, logger, reg), nil
}

// NewUploader wraps an existing client
func NewUploader(client ObjectPutter, bucket, prefix string, logger logging.Logger, reg *metrics.Registry) *Uploader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		logger:  logger.With(logging.Component("upload")),
		metrics: reg,
	}
}

// Key returns the object key for a local file
func (u *Uploader) Key(path string) string {
	name := filepath.Base(path)
	prefix := strings.Trim(u.prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Upload puts the file at path into the bucket and returns its s3:// URL
func (u *Uploader) Upload(ctx context.Context, path string) (string, error) {
	location, err := u.upload(ctx, path)
	status := "success"
	if err != nil {
		status = "error"
	}
	if u.metrics != nil {
		u.metrics.RecordUpload(status)
	}
	if err != nil {
		u.logger.Error("upload failed", logging.Path(path), logging.Error(err))
		return "", err
	}
	u.logger.Info("export uploaded", logging.Path(path), logging.String("location", location))
	return location, nil
}

func (u *Uploader) upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer file.Close()

	contentType := "text/csv"
	if strings.HasSuffix(strings.ToLower(path), CompressedSuffix) {
		contentType = "application/x-snappy-framed"
	}

	key := u.Key(path)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3://%s/%s: %w", ErrUploadFailed, u.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
