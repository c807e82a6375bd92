package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
)

const (
	MaxUploadBytes    = 5 << 20
	DefaultFolder     = "portfolio"
	DefaultListLimit  = 50
	MirrorSaveWarning = "Image metadata could not be saved"
	MirrorDropWarning = "Image metadata could not be removed"
)

// Mirror is the local copy of object-store metadata.
type Mirror interface {
	Add(ctx context.Context, image *models.Image) error
	Upsert(ctx context.Context, image *models.Image) error
	DeleteByPublicID(ctx context.Context, publicID string) error
	DeleteByPublicIDs(ctx context.Context, publicIDs []string) (int64, error)
	FindByFolder(ctx context.Context, folder string, limit int) ([]models.Image, error)
	PublicIDs(ctx context.Context, folder string) ([]string, error)
}

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Folder      string
}

// Result carries the upstream outcome plus a warning when only the mirror write failed.
type Result struct {
	Asset   *Asset
	Warning string
}

type ReconcileReport struct {
	Folder   string `json:"folder"`
	Scanned  int    `json:"scanned"`
	Upserted int    `json:"upserted"`
	Removed  int64  `json:"removed"`
}

type Service struct {
	store  ObjectStore
	mirror Mirror
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(store ObjectStore, mirror Mirror, logger zerolog.Logger) *Service {
	return &Service{store: store, mirror: mirror, logger: logger, now: time.Now}
}

// Upload validates the file, pushes it upstream and records it in the mirror.
// A failed mirror write does not undo the upload; it is reported through Result.Warning.
func (s *Service) Upload(ctx context.Context, in Upload) (Result, error) {
	if in.Size > MaxUploadBytes {
		return Result{}, errs.NewMaxBodySizeExceededError(MaxUploadBytes)
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, MaxUploadBytes+1))
	if err != nil {
		return Result{}, errs.NewBadRequestError("Failed to read uploaded file")
	}
	if len(data) > MaxUploadBytes {
		return Result{}, errs.NewMaxBodySizeExceededError(MaxUploadBytes)
	}
	if len(data) == 0 {
		return Result{}, errs.NewBadRequestError("No file provided")
	}

	contentType, ok := imageContentType(data, in.ContentType)
	if !ok {
		return Result{}, errs.NewUnsupportedMediaTypeError(contentType)
	}

	folder := in.Folder
	if folder == "" {
		folder = DefaultFolder
	}

	asset, err := s.store.Upload(ctx, bytes.NewReader(data), UploadOptions{
		Folder:      folder,
		PublicID:    s.publicID(in.Filename),
		ContentType: contentType,
	})
	if err != nil {
		return Result{}, errs.NewUpstreamError("image store", err)
	}
	asset.Folder = folder

	result := Result{Asset: asset}
	if err := s.mirror.Add(ctx, toModel(*asset)); err != nil {
		s.logger.Error().Err(err).Str("publicId", asset.PublicID).Msg("Error saving image metadata to database")
		result.Warning = MirrorSaveWarning
	}
	return result, nil
}

// Delete removes the asset upstream, then its mirror row. Mirror failures only produce a warning.
func (s *Service) Delete(ctx context.Context, publicID string) (Result, error) {
	if publicID == "" {
		return Result{}, errs.NewBadRequestError("No public ID provided")
	}

	if err := s.store.Delete(ctx, publicID); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return Result{}, errs.NewNotFoundError("Image not found")
		}
		return Result{}, errs.NewUpstreamError("image store", err)
	}

	var result Result
	if err := s.mirror.DeleteByPublicID(ctx, publicID); err != nil && !errors.Is(err, errs.ErrNotFound) {
		s.logger.Error().Err(err).Str("publicId", publicID).Msg("Error removing image from database")
		result.Warning = MirrorDropWarning
	}
	return result, nil
}

// Info reads the asset straight from the object store.
func (s *Service) Info(ctx context.Context, publicID string) (*Asset, error) {
	if publicID == "" {
		return nil, errs.NewBadRequestError("No public ID provided")
	}

	asset, err := s.store.Info(ctx, publicID)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return nil, errs.NewNotFoundError("Image not found")
		}
		return nil, errs.NewUpstreamError("image store", err)
	}
	return asset, nil
}

// List returns mirrored images of folder, newest first.
func (s *Service) List(ctx context.Context, folder string, limit int) ([]Asset, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	if limit < 1 {
		limit = DefaultListLimit
	}

	rows, err := s.mirror.FindByFolder(ctx, folder, limit)
	if err != nil {
		return nil, errs.NewDatabaseError("fetch", "images", err)
	}

	assets := make([]Asset, len(rows))
	for i, row := range rows {
		assets[i] = fromModel(row)
	}
	return assets, nil
}

// Reconcile makes the mirror of folder match the object store: missing rows are upserted and
// rows without an upstream asset are removed.
func (s *Service) Reconcile(ctx context.Context, folder string) (ReconcileReport, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	report := ReconcileReport{Folder: folder}

	assets, err := s.store.List(ctx, folder)
	if err != nil {
		return report, errs.NewUpstreamError("image store", err)
	}
	report.Scanned = len(assets)

	upstream := make(map[string]bool, len(assets))
	for _, asset := range assets {
		upstream[asset.PublicID] = true
		asset.Folder = folder
		if err := s.mirror.Upsert(ctx, toModel(asset)); err != nil {
			return report, errs.NewDatabaseError("reconcile", "images", err)
		}
		report.Upserted++
	}

	mirrored, err := s.mirror.PublicIDs(ctx, folder)
	if err != nil {
		return report, errs.NewDatabaseError("reconcile", "images", err)
	}

	var orphans []string
	for _, id := range mirrored {
		if !upstream[id] {
			orphans = append(orphans, id)
		}
	}
	report.Removed, err = s.mirror.DeleteByPublicIDs(ctx, orphans)
	if err != nil {
		return report, errs.NewDatabaseError("reconcile", "images", err)
	}

	s.logger.Info().
		Str("folder", folder).
		Int("scanned", report.Scanned).
		Int("upserted", report.Upserted).
		Int64("removed", report.Removed).
		Msg("image mirror reconciled")
	return report, nil
}

func (s *Service) publicID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := models.Slugify(base)
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("%d-%s", s.now().UnixMilli(), name)
}

// imageContentType sniffs data and accepts it only when it is an image. The declared type
// is trusted only when sniffing is inconclusive.
func imageContentType(data []byte, declared string) (string, bool) {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed, true
	}
	if sniffed == "application/octet-stream" && strings.HasPrefix(declared, "image/") {
		return declared, true
	}
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return declared, false
	}
	return sniffed, false
}

func toModel(a Asset) *models.Image {
	return &models.Image{
		PublicID:  a.PublicID,
		SecureURL: a.SecureURL,
		Width:     a.Width,
		Height:    a.Height,
		Format:    a.Format,
		Bytes:     a.Bytes,
		Folder:    a.Folder,
	}
}

func fromModel(m models.Image) Asset {
	return Asset{
		PublicID:  m.PublicID,
		SecureURL: m.SecureURL,
		Width:     m.Width,
		Height:    m.Height,
		Format:    m.Format,
		Bytes:     m.Bytes,
		CreatedAt: m.CreatedAt,
		Folder:    m.Folder,
	}
}
