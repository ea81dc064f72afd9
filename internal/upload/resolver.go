// Package upload turns stored file references into client-facing URLs.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"konishi/internal/config"
)

// PostImagesNamespace is the namespace holding post images.
const PostImagesNamespace = "postimages"

// ErrInvalidReference is returned for empty or path-like file references.
var ErrInvalidReference = errors.New("invalid file reference")

// ImageResolver resolves a stored file reference within a namespace to a URL.
type ImageResolver interface {
	GetImage(ctx context.Context, fileRef, namespace string) (string, error)
}

// NewResolver builds the resolver selected by UPLOAD_BACKEND.
func NewResolver(cfg *config.Config) (ImageResolver, error) {
	switch cfg.UploadBackend {
	case "s3":
		return NewS3Resolver(S3Config{
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Bucket:     cfg.S3Bucket,
			Region:     cfg.S3Region,
			UseSSL:     cfg.S3UseSSL,
			PresignTTL: time.Duration(cfg.S3PresignTTLMinutes) * time.Minute,
		})
	case "static", "":
		return NewStaticResolver(cfg.UploadBaseURL)
	default:
		return nil, fmt.Errorf("unsupported upload backend %q", cfg.UploadBackend)
	}
}

// objectKey validates the reference and joins it under the namespace.
func objectKey(fileRef, namespace string) (string, error) {
	fileRef = strings.TrimSpace(fileRef)
	if fileRef == "" || strings.ContainsAny(fileRef, `/\`) || strings.Contains(fileRef, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, fileRef)
	}
	if namespace == "" {
		return fileRef, nil
	}
	return namespace + "/" + fileRef, nil
}
