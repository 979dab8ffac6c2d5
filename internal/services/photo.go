package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trailswipe-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const photoURLExpiry = 15 * time.Minute

// PhotoService resolves trail photo references stored as s3://bucket/key
// into presigned GET URLs. Photos themselves are written by the seed
// import, never through the API.
type PhotoService struct {
	presigner *s3.PresignClient
	bucket    string
}

// NewPhotoService creates a new photo service
func NewPhotoService(awsRegion, bucket, accessKey, secretKey, endpoint string) (*PhotoService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &PhotoService{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}, nil
}

// ResolveURLs replaces s3:// photo references with presigned GET URLs.
// HTTP(S) URLs pass through unchanged; a presign failure keeps the stored
// reference rather than dropping the photo.
func (s *PhotoService) ResolveURLs(ctx context.Context, photos []models.Photo) []models.Photo {
	resolved := make([]models.Photo, len(photos))
	for i, photo := range photos {
		resolved[i] = photo
		key, ok := s.objectKey(photo.URL)
		if !ok {
			continue
		}
		url, err := s.presignGet(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("photo_id", photo.ID).Msg("Failed to presign photo URL")
			continue
		}
		resolved[i].URL = url
	}
	return resolved
}

func (s *PhotoService) objectKey(url string) (string, bool) {
	prefix := "s3://" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func (s *PhotoService) presignGet(ctx context.Context, key string) (string, error) {
	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = photoURLExpiry
	})
	if err != nil {
		return "", err
	}
	return request.URL, nil
}
