package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	UploadProfile      = "profile"
	UploadProductPhoto = "product-photo"
	UploadProductVideo = "product-video"

	MaxUploadSize = 5 << 20

	msgStorageDisabled = "File storage is not configured"
)

var ErrObjectNotFound = errors.New("object not found")

type BlobStore interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
	ObjectKey(fileURL string) (string, bool)
}

type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore serves objects from publicURL/bucket/objectName.
func NewMinioStore(client *minio.Client, bucket, publicURL string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    10 << 20,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}

func (s *MinioStore) Remove(ctx context.Context, objectName string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to stat %s: %w", objectName, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectName, err)
	}
	return nil
}

// ObjectKey turns http://host/bucket/photos/a.jpg into photos/a.jpg.
func (s *MinioStore) ObjectKey(fileURL string) (string, bool) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", false
	}
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] != s.bucket || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type uploadRule struct {
	folder  string
	allowed []string
	label   string
}

var uploadRules = map[string]uploadRule{
	UploadProfile:      {folder: "profile", allowed: []string{"image/jpeg", "image/png"}, label: "JPEG and PNG images"},
	UploadProductPhoto: {folder: "photos", allowed: []string{"image/jpeg", "image/png"}, label: "JPEG and PNG images"},
	UploadProductVideo: {folder: "videos", allowed: []string{"video/mp4", "video/mpeg"}, label: "MP4 and MPEG videos"},
}

// NormalizeUploadType accepts "product photo", "product_photo" and "product-photo".
func NormalizeUploadType(t string) (string, bool) {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.NewReplacer(" ", "-", "_", "-").Replace(t)
	_, ok := uploadRules[t]
	return t, ok
}

type UploadService struct {
	store       BlobStore
	productRepo repositories.ProductRepository
	log         *zap.Logger
}

// NewUploadService accepts a nil store; uploads are then refused.
func NewUploadService(store BlobStore, productRepo repositories.ProductRepository, log *zap.Logger) *UploadService {
	return &UploadService{store: store, productRepo: productRepo, log: log}
}

func validateUpload(rule uploadRule, f UploadFile) error {
	ok := false
	for _, a := range rule.allowed {
		if strings.EqualFold(f.ContentType, a) {
			ok = true
			break
		}
	}
	if !ok {
		return detail(ErrValidation, fmt.Sprintf("Invalid file type: %s. Only %s are allowed.", f.ContentType, rule.label))
	}
	if f.Size > MaxUploadSize {
		return detail(ErrValidation, fmt.Sprintf("File size should not exceed %dMB", MaxUploadSize>>20))
	}
	return nil
}

func (s *UploadService) Upload(ctx context.Context, user *models.User, uploadType string, files []UploadFile) ([]string, error) {
	if s.store == nil {
		return nil, detail(ErrInvalidState, msgStorageDisabled)
	}
	t, ok := NormalizeUploadType(uploadType)
	if !ok {
		return nil, detail(ErrValidation, fmt.Sprintf("Invalid type. Must be one of: %s, %s, %s", UploadProfile, UploadProductPhoto, UploadProductVideo))
	}
	if len(files) == 0 {
		return nil, detail(ErrValidation, "at least one file is required")
	}

	rule := uploadRules[t]
	for _, f := range files {
		if err := validateUpload(rule, f); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		name := fmt.Sprintf("%s/%s-%s", rule.folder, uuid.NewString(), path.Base(f.Name))
		u, err := s.store.Put(ctx, name, f.Body, f.Size, f.ContentType)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	s.log.Info("files uploaded", zap.Uint("user_id", user.ID), zap.String("type", t), zap.Int("count", len(urls)))
	return urls, nil
}

// DeleteProductFile removes a photo or video from one of the caller's products
// and from the blob store.
func (s *UploadService) DeleteProductFile(ctx context.Context, user *models.User, uploadType, fileName string) (string, error) {
	if s.store == nil {
		return "", detail(ErrInvalidState, msgStorageDisabled)
	}
	t, ok := NormalizeUploadType(uploadType)
	if !ok || t == UploadProfile {
		return "", detail(ErrValidation, "Unsupported upload type for deletion.")
	}

	products, err := s.productRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list products: %w", err)
	}

	for i := range products {
		p := &products[i]
		files := &p.Pictures
		if t == UploadProductVideo {
			files = &p.Videos
		}

		for j, u := range *files {
			if path.Base(u) != fileName && !strings.HasSuffix(u, "/"+fileName) {
				continue
			}

			kept := append(append([]string{}, (*files)[:j]...), (*files)[j+1:]...)
			*files = kept
			if err := s.productRepo.Update(ctx, p); err != nil {
				return "", fmt.Errorf("failed to update product %d: %w", p.ID, err)
			}

			if key, ok := s.store.ObjectKey(u); ok {
				if err := s.store.Remove(ctx, key); err != nil {
					if errors.Is(err, ErrObjectNotFound) {
						return "", detail(ErrNotFound, fmt.Sprintf("File '%s' not found in storage", u))
					}
					return "", err
				}
			}
			return u, nil
		}
	}
	return "", detail(ErrNotFound, fmt.Sprintf("File '%s' not found in the database.", fileName))
}
