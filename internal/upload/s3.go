package upload

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures presigned access to an S3-compatible bucket.
type S3Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string
	UseSSL     bool
	PresignTTL time.Duration
}

// S3Resolver hands out short-lived presigned GET URLs for uploaded objects.
type S3Resolver struct {
	cfg    S3Config
	client *minio.Client
}

// NewS3Resolver creates the minio client. A configured region lets presigning
// run without a bucket-location round trip.
func NewS3Resolver(cfg S3Config) (*S3Resolver, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = time.Hour
	}
	return &S3Resolver{cfg: cfg, client: cl}, nil
}

// GetImage presigns a GET for {namespace}/{fileRef} in the configured bucket.
func (r *S3Resolver) GetImage(ctx context.Context, fileRef, namespace string) (string, error) {
	key, err := objectKey(fileRef, namespace)
	if err != nil {
		return "", err
	}
	u, err := r.client.PresignedGetObject(ctx, r.cfg.Bucket, key, r.cfg.PresignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
