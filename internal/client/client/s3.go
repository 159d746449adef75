package client

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/trailkeeper/internal/netx"
)

// S3Options configures the blob store. BaseEndpoint is set when the target
// is an S3-compatible service such as MinIO.
type S3Options struct {
	Region       string
	Bucket       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// blobURLExpiry is the lifetime of the signed GET URLs written into remote
// rows. The sync engine re-uploads on every POI upsert, refreshing the URL.
const blobURLExpiry = 7 * 24 * time.Hour

// S3BlobStore uploads photo and image blobs through presigned PUT requests
// and returns long-lived presigned GET URLs for the remote rows to reference.
type S3BlobStore struct {
	presign *s3.PresignClient
	bucket  string
}

// NewS3BlobStore builds a blob store from static credentials.
func NewS3BlobStore(ctx context.Context, opts S3Options) (*S3BlobStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey, opts.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = opts.BaseEndpoint != ""
	})

	return &S3BlobStore{presign: s3.NewPresignClient(client), bucket: opts.Bucket}, nil
}

// Upload writes data under key and returns a durable signed URL. Keys repeat
// across sync passes ({trailId}/{filename}), so re-uploads are idempotent
// overwrites.
func (s *S3BlobStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	put, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign put for %s: %w", key, err)
	}

	if err := netx.UploadToS3PresignedURL(ctx, put.URL, data); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	get, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(blobURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign get for %s: %w", key, err)
	}
	return get.URL, nil
}
