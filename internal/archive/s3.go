package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"animal-reels-bot/internal"
)

// Client is the slice of S3 the pipeline needs: object puts for reels and
// JSON reads/writes for manifests and the shared ledger.
type Client interface {
	PutBytes(ctx context.Context, key string, b []byte, contentType string) error
	PutFile(ctx context.Context, key, path, contentType string) error
	ReadJSON(ctx context.Context, key string, out any) (bool, error)
	WriteJSON(ctx context.Context, key string, v any) error
}

type s3Client struct {
	bucket string
	api    *awss3.Client
	upl    *manager.Uploader
}

func New(cfg internal.Config) (Client, error) {
	endpoint := cfg.S3Endpoint
	forcePathStyle := true
	if strings.Contains(endpoint, "amazonaws.com") {
		forcePathStyle = false
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = forcePathStyle
		o.BaseEndpoint = &endpoint
	})

	return &s3Client{
		bucket: cfg.S3Bucket,
		api:    client,
		upl:    manager.NewUploader(client),
	}, nil
}

func (c *s3Client) PutBytes(ctx context.Context, key string, b []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		Body:        bytes.NewReader(b),
		ContentType: &contentType,
	})
	return err
}

// PutFile streams a local file through the upload manager, which splits
// large reels into multipart uploads.
func (c *s3Client) PutFile(ctx context.Context, key, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.upl.Upload(ctx, &awss3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	return err
}

func (c *s3Client) ReadJSON(ctx context.Context, key string, out any) (bool, error) {
	res, err := c.api.GetObject(ctx, &awss3.GetObjectInput{Bucket: &c.bucket, Key: &key})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, out)
}

func (c *s3Client) WriteJSON(ctx context.Context, key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return c.PutBytes(ctx, key, b, "application/json")
}
