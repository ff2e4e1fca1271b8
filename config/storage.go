package config

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// NewS3Config initializes the S3 client using environment variables
func NewS3Config(ctx context.Context) (*S3Config, error) {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		bucket = "mealcount-menu-images" // default bucket name
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(os.Getenv("AWS_REGION")),
	)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: bucket,
	}, nil
}

// GeneratePresignedURL generates a presigned URL for the given object key
// with the specified expiration time
func (s *S3Config) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.Client)
	presignedURL, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
