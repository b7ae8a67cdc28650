package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Endpoint        string `yaml:"endpoint" envconfig:"OSS_ENDPOINT" default:"oss-ap-southeast-1.aliyuncs.com"`
	AccessKeyID     string `yaml:"accessKeyID" envconfig:"OSS_ACCESS_KEY_ID"`
	AccessKeySecret string `yaml:"accessKeySecret" envconfig:"OSS_ACCESS_KEY_SECRET"`
	Bucket          string `yaml:"bucket" envconfig:"CLOUD_BUCKET" required:"true"`
}

// Uploader stores an uploaded file in the blob store and returns the public
// URL the stored object resolves at.
type Uploader interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

type ossUploader struct {
	bucket *oss.Bucket
	cfg    Config
	log    *zap.Logger
}

func NewOSSUploader(cfg Config, log *zap.Logger) (*ossUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "oss.New")
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "oss bucket")
	}
	return &ossUploader{
		bucket: bucket,
		cfg:    cfg,
		log:    log.Named("storage"),
	}, nil
}

func (u *ossUploader) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(errs.ErrUploadFailed, err.Error())
	}
	defer f.Close()

	key := objectKey(fh.Filename)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(fh.Header.Get("Content-Type")),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := u.bucket.PutObject(key, f, opts...); err != nil {
		u.log.Error("put object", zap.String("key", key), zap.Error(err))
		return "", errors.Wrap(errs.ErrUploadFailed, err.Error())
	}

	return publicURL(u.cfg.Bucket, u.cfg.Endpoint, key), nil
}

// objectKey generates a unique storage key, keeping the original extension so
// content sniffing by CDNs keeps working.
func objectKey(filename string) string {
	return "books/" + uuid.NewString() + path.Ext(filename)
}

func publicURL(bucket, endpoint, key string) string {
	return fmt.Sprintf("https://%s.%s/%s", bucket, endpoint, key)
}
