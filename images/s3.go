package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	metaWidth  = "width"
	metaHeight = "height"
	metaFormat = "format"
)

// S3API is the part of the S3 client the store calls.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store keeps images in an S3-compatible bucket. The object key is the public id and
// dimensions travel as object metadata.
type S3Store struct {
	client    S3API
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3Store(client S3API, bucket, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		now:       time.Now,
	}
}

// NewS3StoreFromConfig loads AWS credentials from the default chain. A non-empty endpoint
// switches to path-style addressing for S3-compatible services.
func NewS3StoreFromConfig(ctx context.Context, bucket, endpoint, publicURL string) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, awsCfg.Region)
	}
	return NewS3Store(client, bucket, publicURL), nil
}

func (s *S3Store) url(key string) string {
	return s.publicURL + "/" + key
}

func (s *S3Store) Upload(ctx context.Context, body io.Reader, opts UploadOptions) (*Asset, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	key := opts.PublicID
	if opts.Folder != "" {
		key = opts.Folder + "/" + opts.PublicID
	}

	var width, height int
	format := strings.TrimPrefix(opts.ContentType, "image/")
	if cfg, decoded, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width, height, format = cfg.Width, cfg.Height, decoded
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(opts.ContentType),
		Metadata: map[string]string{
			metaWidth:  strconv.Itoa(width),
			metaHeight: strconv.Itoa(height),
			metaFormat: format,
		},
	})
	if err != nil {
		return nil, err
	}

	return &Asset{
		PublicID:  key,
		SecureURL: s.url(key),
		Width:     width,
		Height:    height,
		Format:    format,
		Bytes:     int64(len(data)),
		CreatedAt: s.now().UTC(),
		Folder:    opts.Folder,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	return err
}

func (s *S3Store) Info(ctx context.Context, publicID string) (*Asset, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	width, _ := strconv.Atoi(head.Metadata[metaWidth])
	height, _ := strconv.Atoi(head.Metadata[metaHeight])
	return &Asset{
		PublicID:  publicID,
		SecureURL: s.url(publicID),
		Width:     width,
		Height:    height,
		Format:    head.Metadata[metaFormat],
		Bytes:     aws.ToInt64(head.ContentLength),
		CreatedAt: aws.ToTime(head.LastModified),
		Folder:    folderOf(publicID),
	}, nil
}

func (s *S3Store) List(ctx context.Context, folder string) ([]Asset, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(folder + "/"),
	})

	var assets []Asset
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			asset, err := s.Info(ctx, aws.ToString(obj.Key))
			if err != nil {
				return nil, err
			}
			assets = append(assets, *asset)
		}
	}
	return assets, nil
}
