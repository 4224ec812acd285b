// Package storage guarda las imágenes de productos en S3 (o compatible).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3ImageStore implementa ports.ImageStore.
type S3ImageStore struct {
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3ImageStore crea la sesión AWS. endpoint vacío usa el de AWS; con endpoint
// (MinIO, LocalStack) se fuerza path-style.
func NewS3ImageStore(bucket, region, endpoint string) (*S3ImageStore, error) {
	cfg := aws.NewConfig().WithRegion(region)
	if endpoint != "" {
		cfg = cfg.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return &S3ImageStore{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		baseURL:  PublicBaseURL(bucket, region, endpoint),
	}, nil
}

// Upload sube el objeto con lectura pública y devuelve su URL.
func (s *S3ImageStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return s.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}

// PublicBaseURL URL base de los objetos del bucket.
func PublicBaseURL(bucket, region, endpoint string) string {
	if endpoint != "" {
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}
