package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
)

// StorageService archives uploaded documents under generated keys.
type StorageService interface {
	EnsureReady(ctx context.Context) error
	Save(ctx context.Context, doc models.Document, prefix string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewObjectKey returns "<prefix>/<uuid>_<base name>". The base name keeps
// letters, digits, dots, dashes and underscores.
func NewObjectKey(prefix, filename string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, filepath.Base(filename))

	return path.Join(prefix, fmt.Sprintf("%s_%s", uuid.New().String(), base))
}

type localStorageService struct {
	uploadPath string
	log        *zap.Logger
}

func NewLocalStorageService(uploadPath string, log *zap.Logger) StorageService {
	return &localStorageService{
		uploadPath: uploadPath,
		log:        log,
	}
}

func (s *localStorageService) EnsureReady(_ context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *localStorageService) Save(_ context.Context, doc models.Document, prefix string) (string, error) {
	key := NewObjectKey(prefix, doc.Filename)
	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.NewSectionReader(doc.Reader, 0, doc.Size)); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.log.Debug("document archived", zap.String("key", key))
	return key, nil
}

func (s *localStorageService) Delete(_ context.Context, key string) error {
	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(key))
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// S3Options configures an S3 compatible bucket (AWS, R2, MinIO).
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type s3StorageService struct {
	client *s3.Client
	bucket string
	log    *zap.Logger
}

func NewS3StorageService(ctx context.Context, opts S3Options, log *zap.Logger) (StorageService, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
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

	return &s3StorageService{
		client: client,
		bucket: opts.Bucket,
		log:    log,
	}, nil
}

func (s *s3StorageService) EnsureReady(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("failed to reach bucket %s: %w", s.bucket, err)
	}

	return nil
}

func (s *s3StorageService) Save(ctx context.Context, doc models.Document, prefix string) (string, error) {
	key := NewObjectKey(prefix, doc.Filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          io.NewSectionReader(doc.Reader, 0, doc.Size),
		ContentLength: aws.Int64(doc.Size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	s.log.Debug("document archived", zap.String("bucket", s.bucket), zap.String("key", key))
	return key, nil
}

func (s *s3StorageService) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
