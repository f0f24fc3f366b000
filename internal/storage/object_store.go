package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/segmentio/ksuid"

	"placementhub/internal/config"
)

// ObjectStore holds uploaded company logos.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
	public string
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
		public: fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.BucketLogos),
	}, nil
}

func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketLogos)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketLogos, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketLogos, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketLogos, err)
		}
	}
	return nil
}

// PutLogo stores a company logo under a fresh sortable key and returns the
// public URL to persist on the company record.
func (s *ObjectStore) PutLogo(ctx context.Context, companyID int64, reader io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("companies/%d/%s%s", companyID, ksuid.New().String(), extensionFor(contentType))

	_, err := s.client.PutObject(ctx, s.cfg.BucketLogos, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put logo: %w", err)
	}

	return s.public + "/" + key, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
