package images

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	// Applied to every upload: 1200x800 fill with automatic quality and format.
	uploadTransformation = "c_fill,w_1200,h_800,q_auto,f_auto"
	listPageSize         = 500
)

// cloudinaryAPI is the part of the Cloudinary SDK the store calls.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file any, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
	Asset(ctx context.Context, params admin.AssetParams) (*admin.AssetResult, error)
	Assets(ctx context.Context, params admin.AssetsParams) (*admin.AssetsResult, error)
}

type sdkClient struct {
	cld *cloudinary.Cloudinary
}

func (c sdkClient) Upload(ctx context.Context, file any, params uploader.UploadParams) (*uploader.UploadResult, error) {
	return c.cld.Upload.Upload(ctx, file, params)
}

func (c sdkClient) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	return c.cld.Upload.Destroy(ctx, params)
}

func (c sdkClient) Asset(ctx context.Context, params admin.AssetParams) (*admin.AssetResult, error) {
	return c.cld.Admin.Asset(ctx, params)
}

func (c sdkClient) Assets(ctx context.Context, params admin.AssetsParams) (*admin.AssetsResult, error) {
	return c.cld.Admin.Assets(ctx, params)
}

type CloudinaryStore struct {
	client cloudinaryAPI
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &CloudinaryStore{client: sdkClient{cld}}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, body io.Reader, opts UploadOptions) (*Asset, error) {
	res, err := s.client.Upload(ctx, body, uploader.UploadParams{
		PublicID:       opts.PublicID,
		Folder:         opts.Folder,
		Transformation: uploadTransformation,
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}

	return &Asset{
		PublicID:  res.PublicID,
		SecureURL: res.SecureURL,
		Width:     res.Width,
		Height:    res.Height,
		Format:    res.Format,
		Bytes:     int64(res.Bytes),
		CreatedAt: res.CreatedAt,
		Folder:    opts.Folder,
	}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	res, err := s.client.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	switch res.Result {
	case "ok":
		return nil
	case "not found":
		return ErrAssetNotFound
	default:
		return fmt.Errorf("delete failed: %s", res.Result)
	}
}

func (s *CloudinaryStore) Info(ctx context.Context, publicID string) (*Asset, error) {
	res, err := s.client.Asset(ctx, admin.AssetParams{PublicID: publicID})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}

	return &Asset{
		PublicID:  res.PublicID,
		SecureURL: res.SecureURL,
		Width:     res.Width,
		Height:    res.Height,
		Format:    res.Format,
		Bytes:     int64(res.Bytes),
		CreatedAt: res.CreatedAt,
		Folder:    folderOf(res.PublicID),
	}, nil
}

func (s *CloudinaryStore) List(ctx context.Context, folder string) ([]Asset, error) {
	var (
		assets []Asset
		cursor string
	)
	for {
		res, err := s.client.Assets(ctx, admin.AssetsParams{
			AssetType:    api.Image,
			DeliveryType: string(api.Upload),
			Prefix:       folder + "/",
			MaxResults:   listPageSize,
			NextCursor:   cursor,
		})
		if err != nil {
			return nil, err
		}
		if res.Error.Message != "" {
			return nil, errors.New(res.Error.Message)
		}

		for _, a := range res.Assets {
			assets = append(assets, Asset{
				PublicID:  a.PublicID,
				SecureURL: a.SecureURL,
				Width:     a.Width,
				Height:    a.Height,
				Format:    a.Format,
				Bytes:     int64(a.Bytes),
				CreatedAt: a.CreatedAt,
				Folder:    folder,
			})
		}

		if res.NextCursor == "" {
			return assets, nil
		}
		cursor = res.NextCursor
	}
}
