// Package images keeps uploaded images in an external object store and mirrors their
// metadata into the Image table.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	StoreCloudinary = "cloudinary"
	StoreS3         = "s3"
)

// ErrAssetNotFound is returned by stores when the public id is unknown upstream.
var ErrAssetNotFound = errors.New("asset not found")

// Asset is an object-store record. Its JSON shape is what upload and image list clients consume.
type Asset struct {
	PublicID  string    `json:"public_id"`
	SecureURL string    `json:"secure_url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Format    string    `json:"format"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
	Folder    string    `json:"folder"`
}

type UploadOptions struct {
	Folder      string
	PublicID    string
	ContentType string
}

// ObjectStore is the upstream holding image bytes.
type ObjectStore interface {
	Upload(ctx context.Context, body io.Reader, opts UploadOptions) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
	Info(ctx context.Context, publicID string) (*Asset, error)
	// List returns every asset stored under folder.
	List(ctx context.Context, folder string) ([]Asset, error)
}

// NewStore builds the configured object store wrapped in a circuit breaker.
// Missing credentials yield a store whose every call fails with errs.ErrConfigMissing.
func NewStore(ctx context.Context, cfg config.ImagesConfig) (ObjectStore, error) {
	var (
		store ObjectStore
		err   error
	)

	switch cfg.Store {
	case StoreCloudinary, "":
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			store = unconfiguredStore{missing: "CLOUDINARY_CLOUD_NAME/CLOUDINARY_API_KEY/CLOUDINARY_API_SECRET"}
			break
		}
		store, err = NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case StoreS3:
		if cfg.S3Bucket == "" {
			store = unconfiguredStore{missing: "S3_BUCKET"}
			break
		}
		store, err = NewS3StoreFromConfig(ctx, cfg.S3Bucket, cfg.S3Endpoint, cfg.S3PublicURL)
	default:
		return nil, fmt.Errorf("unsupported IMAGE_STORE %q", cfg.Store)
	}
	if err != nil {
		return nil, err
	}

	return NewBreakerStore(cfg.Store, store), nil
}

// folderOf returns the folder part of a public id ("portfolio/123-me" -> "portfolio").
func folderOf(publicID string) string {
	dir := path.Dir(publicID)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

type unconfiguredStore struct {
	missing string
}

func (s unconfiguredStore) err() error {
	return errs.NewConfigMissingError(s.missing)
}

func (s unconfiguredStore) Upload(context.Context, io.Reader, UploadOptions) (*Asset, error) {
	return nil, s.err()
}

func (s unconfiguredStore) Delete(context.Context, string) error {
	return s.err()
}

func (s unconfiguredStore) Info(context.Context, string) (*Asset, error) {
	return nil, s.err()
}

func (s unconfiguredStore) List(context.Context, string) ([]Asset, error) {
	return nil, s.err()
}
