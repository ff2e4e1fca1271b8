package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/SAGARJHA0511/MealCount/config"
)

// ImageService stores vendor menu photos in S3.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadMenuImage uploads image data under a fresh object key and returns
// the public URL.
func (s *ImageService) UploadMenuImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := fmt.Sprintf("menu-images/%s", uuid.New().String())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload menu image: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("uploaded menu image %s", url)
	return url, nil
}
