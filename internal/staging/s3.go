package staging

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jaeaeich/nbrun/internal/config"
	"github.com/jaeaeich/nbrun/internal/logger"
)

// S3Provider is a staging provider for S3-compatible object stores.
type S3Provider struct{}

// GetURI returns the S3 URI for a given run ID.
func (p *S3Provider) GetURI(runID string) (string, error) {
	stagingPath := path.Join(config.Cfg.Staging.Prefix, runID)
	return fmt.Sprintf("s3://%s/%s", config.Cfg.Staging.Bucket, stagingPath), nil
}

// UploadFile uploads a file to S3.
func (p *S3Provider) UploadFile(ctx context.Context, localPath, remotePath string) error {
	client, err := newS3Client(ctx)
	if err != nil {
		return err
	}
	return putFile(ctx, client, localPath, remotePath)
}

// UploadDir uploads a directory to S3.
func (p *S3Provider) UploadDir(ctx context.Context, localPath, remotePath string) error {
	client, err := newS3Client(ctx)
	if err != nil {
		return err
	}

	return filepath.Walk(localPath, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(localPath, filePath)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		return putFile(ctx, client, filePath, path.Join(remotePath, relPath))
	})
}

func putFile(ctx context.Context, client *s3.Client, localPath, key string) error {
	//nolint:gosec // The file path is controlled by the system and not user input.
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.L.Error("failed to close file", "path", localPath, "error", closeErr)
		}
	}()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(config.Cfg.Staging.Bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file %s to S3: %w", localPath, err)
	}
	return nil
}

func newS3Client(ctx context.Context) (*s3.Client, error) {
	params := config.Cfg.Staging.Parameters
	awsRegion, ok := params["AWS_REGION"]
	if !ok {
		awsRegion = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(awsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				params["AWS_ACCESS_KEY_ID"],
				params["AWS_SECRET_ACCESS_KEY"],
				"",
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint, ok := params["AWS_ENDPOINT_URL"]; ok {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}
