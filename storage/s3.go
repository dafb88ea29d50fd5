package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// objectAPI is the part of the S3 client the store needs
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps project images in an S3 compatible bucket. Supabase storage exposes
// such an endpoint, so the same code serves the hosted backend and plain S3.
type S3Store struct {
	client     objectAPI
	publicBase string
	logger     zerolog.Logger
}

// NewS3Store builds a store from STORAGE_* configuration. The public base defaults to
// Supabase's public object URL for SUPABASE_URL.
func NewS3Store(ctx context.Context, c map[string]string) (*S3Store, error) {
	supabaseURL := strings.TrimSuffix(config.GetString(c, "SUPABASE_URL", ""), "/")
	endpoint := config.GetString(c, "STORAGE_ENDPOINT", "")
	if endpoint == "" && supabaseURL != "" {
		endpoint = supabaseURL + "/storage/v1/s3"
	}
	publicBase := config.GetString(c, "STORAGE_PUBLIC_URL", "")
	if publicBase == "" && supabaseURL != "" {
		publicBase = supabaseURL + "/storage/v1/object/public"
	}
	if publicBase == "" {
		return nil, fmt.Errorf("STORAGE_PUBLIC_URL or SUPABASE_URL is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.GetString(c, "STORAGE_REGION", "us-east-1")),
	}
	if key := config.GetString(c, "STORAGE_ACCESS_KEY", ""); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, config.GetString(c, "STORAGE_SECRET_KEY", ""), ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, publicBase), nil
}

func newS3Store(client objectAPI, publicBase string) *S3Store {
	return &S3Store{
		client:     client,
		publicBase: strings.TrimSuffix(publicBase, "/"),
		logger:     log.With().Str("component", "storage").Logger(),
	}
}

// Upload stores data under folder with a random file name that keeps the original
// extension, and returns the object's public URL.
func (s *S3Store) Upload(ctx context.Context, data []byte, bucket, folder, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}

	contentType := DetectContentType(data, filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mimetype.Detect(data).Extension()
	}
	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	s.logger.Info().Str("bucket", bucket).Str("key", key).Str("contentType", contentType).Int("bytes", len(data)).Msg("Uploaded asset")
	return s.PublicURL(bucket, key), nil
}

// Delete removes the object a public URL points to
func (s *S3Store) Delete(ctx context.Context, rawURL, bucket string) error {
	key, err := ObjectKey(rawURL, bucket)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL is the address clients use to fetch an object
func (s *S3Store) PublicURL(bucket, key string) string {
	return s.publicBase + "/" + bucket + "/" + key
}

// ObjectKey returns the path segments that follow the bucket segment of a public URL.
func ObjectKey(rawURL, bucket string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse asset url: %w", err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == bucket && i+1 < len(segments) {
			return strings.Join(segments[i+1:], "/"), nil
		}
	}
	return "", fmt.Errorf("asset url %q is not inside bucket %q", rawURL, bucket)
}
