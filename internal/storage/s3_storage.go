package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"roofline/server/internal/config"
)

// IPhotoStorage hands out presigned upload URLs for property photos. Clients
// upload directly to S3; the resulting public URL is stored on the property
// through the normal update route.
type IPhotoStorage interface {
	GenerateUploadURL(ctx context.Context, agentEmail, filename, contentType string) (uploadURL, publicURL string, err error)
}

// photoStorage implements IPhotoStorage.
type photoStorage struct {
	cfg           *config.Config
	presignClient *s3.PresignClient
}

// NewPhotoStorage creates a new S3-backed photo storage service.
func NewPhotoStorage(cfg *config.Config) (IPhotoStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &photoStorage{
		cfg:           cfg,
		presignClient: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
	}, nil
}

// GenerateUploadURL creates a presigned PUT URL and the public URL the object
// will have once uploaded.
func (s *photoStorage) GenerateUploadURL(ctx context.Context, agentEmail, filename, contentType string) (string, string, error) {
	// Flatten the filename so a crafted name cannot escape the prefix.
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	objectKey := fmt.Sprintf("properties/%s/%s_%s", agentEmail, uuid.NewString(), base)

	presignParams := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}

	presignedReq, err := s.presignClient.PresignPutObject(ctx, presignParams,
		s3.WithPresignExpires(s.cfg.UploadURLTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned PUT URL for key %s: %w", objectKey, err)
	}

	publicURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.ImageBaseS3URL, "/"), objectKey)
	return presignedReq.URL, publicURL, nil
}
