package writer

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "llamaflow/config"
	"llamaflow/logger"
)

// S3Mirror uploads written snapshots to an S3 bucket, preserving the local
// directory layout under an optional key prefix.
type S3Mirror struct {
	client *s3.Client
	bucket string
	prefix string
	log    *logger.Log
}

// NewS3Mirror configures the AWS SDK and validates that credentials are
// available before returning a usable mirror.
func NewS3Mirror(cfg *appconfig.Config) (*S3Mirror, error) {
	ctx := context.Background()

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Storage.S3.Region)}
	if cfg.Storage.S3.AccessKeyID != "" && cfg.Storage.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Storage.S3.AccessKeyID,
				cfg.Storage.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	mirror := &S3Mirror{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Storage.S3.Bucket,
		prefix: cfg.Storage.S3.Prefix,
		log:    logger.GetLogger(),
	}

	mirror.log.WithComponent("s3_mirror").WithFields(logger.Fields{
		"bucket": mirror.bucket,
		"region": cfg.Storage.S3.Region,
		"prefix": mirror.prefix,
	}).Debug("s3 mirror initialized")

	return mirror, nil
}

// Upload puts one snapshot under <prefix>/<category>[/<subcategory>]/<filename>.
func (m *S3Mirror) Upload(ctx context.Context, category, subcategory, filename string, data []byte) error {
	key := path.Join(m.prefix, category, subcategory, filename)

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	m.log.WithComponent("s3_mirror").WithFields(logger.Fields{
		"key":   key,
		"bytes": len(data),
	}).Debug("mirrored snapshot")
	return nil
}
