package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ladlelabs/ladle/backend/config"
)

// ImageService stores recipe images in S3 and hands back stable public
// URLs. Recipes only ever persist the reference.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadBase64 decodes a base64 image payload and uploads it. The
// payload may be a bare base64 string or a data URL
// ("data:image/png;base64,...").
func (s *ImageService) UploadBase64(ctx context.Context, payload string) (string, error) {
	contentType := "image/png"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("malformed data URL")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		if idx := strings.Index(meta, ";"); idx > 0 {
			contentType = meta[:idx]
		}
		data = parts[1]
	}

	imageData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	ext := "png"
	if idx := strings.Index(contentType, "/"); idx > 0 {
		ext = contentType[idx+1:]
	}
	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)

	return s.upload(ctx, imageData, fileName, contentType)
}

// upload puts image data into S3 and returns the public URL.
func (s *ImageService) upload(ctx context.Context, imageData []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Uploaded image to S3: %s", publicURL)

	return publicURL, nil
}
