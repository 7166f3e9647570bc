package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/techagentng/civilink/config"
)

// ImageStore saves encoded images and returns the public URL for each.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

func NewImageStore(ctx context.Context, conf *config.Config) (ImageStore, error) {
	switch conf.MediaDriver {
	case config.MediaS3:
		return NewS3ImageStore(ctx, conf)
	case config.MediaLocal, "":
		return NewLocalImageStore(conf.MediaDir, conf.BaseUrl), nil
	default:
		return nil, fmt.Errorf("unknown media driver %q", conf.MediaDriver)
	}
}

// localImageStore writes under dir; the server exposes dir at /media.
type localImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) ImageStore {
	return &localImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *localImageStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	dest := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", errors.Wrap(err, "create media folder")
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", errors.Wrap(err, "write media file")
	}
	return l.baseURL + "/media/" + key, nil
}

type s3ImageStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3ImageStore(ctx context.Context, conf *config.Config) (ImageStore, error) {
	if conf.AWSBucket == "" {
		return nil, errors.New("s3 media driver needs a bucket")
	}
	cfg, err := fig.LoadDefaultConfig(ctx,
		fig.WithRegion(conf.AWSRegion),
		fig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AWSAccessKeyID,
			conf.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	return &s3ImageStore{
		client: s3.NewFromConfig(cfg),
		bucket: conf.AWSBucket,
		region: conf.AWSRegion,
	}, nil
}

func (s *s3ImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
