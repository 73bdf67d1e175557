package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/dbtest"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	objects map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string]string{}}
}

func (m *memoryStore) Put(_ context.Context, name string, r io.Reader, _ int64, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[name] = contentType + ":" + string(b)
	return "http://blob.local/momentum/" + name, nil
}

func (m *memoryStore) Remove(_ context.Context, name string) error {
	if _, ok := m.objects[name]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, name)
	return nil
}

func (m *memoryStore) ObjectKey(u string) (string, bool) {
	key := strings.TrimPrefix(u, "http://blob.local/momentum/")
	return key, key != u
}

func file(name, contentType string, size int64) UploadFile {
	return UploadFile{Name: name, ContentType: contentType, Size: size, Body: strings.NewReader("data")}
}

func TestNormalizeUploadType(t *testing.T) {
	for in, want := range map[string]string{
		"profile":       UploadProfile,
		"product photo": UploadProductPhoto,
		"Product_Video": UploadProductVideo,
	} {
		got, ok := NormalizeUploadType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := NormalizeUploadType("avatar")
	assert.False(t, ok)
}

func TestUploadService_Upload(t *testing.T) {
	store := newMemoryStore()
	svc := NewUploadService(store, nil, zap.NewNop())
	user := &models.User{ID: 1}
	ctx := context.Background()

	urls, err := svc.Upload(ctx, user, "product-photo", []UploadFile{file("a.jpg", "image/jpeg", 10), file("b.png", "image/png", 10)})
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.True(t, strings.HasPrefix(urls[0], "http://blob.local/momentum/photos/"))
	assert.True(t, strings.HasSuffix(urls[0], "-a.jpg"))
	assert.Len(t, store.objects, 2)

	_, err = svc.Upload(ctx, user, "product-video", []UploadFile{file("a.jpg", "image/jpeg", 10)})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, Detail(err, ""), "Invalid file type: image/jpeg")

	_, err = svc.Upload(ctx, user, "profile", []UploadFile{file("big.png", "image/png", MaxUploadSize+1)})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "File size should not exceed 5MB", Detail(err, ""))

	_, err = svc.Upload(ctx, user, "avatar", []UploadFile{file("a.png", "image/png", 1)})
	require.ErrorIs(t, err, ErrValidation)

	// a rejected batch stores nothing
	assert.Len(t, store.objects, 2)

	_, err = NewUploadService(nil, nil, zap.NewNop()).Upload(ctx, user, "profile", []UploadFile{file("a.png", "image/png", 1)})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestUploadService_DeleteProductFile(t *testing.T) {
	db := dbtest.Open(t)
	artisan := dbtest.CreateUser(t, db, "maker", models.RoleArtisan)
	brand := dbtest.CreateBrand(t, db, artisan, "Clay")
	product := dbtest.CreateProduct(t, db, brand, "Vase", "10.00", nil)

	store := newMemoryStore()
	productRepo := repositories.NewProductRepository(db)
	svc := NewUploadService(store, productRepo, zap.NewNop())
	ctx := context.Background()

	urls, err := svc.Upload(ctx, artisan, UploadProductPhoto, []UploadFile{file("a.jpg", "image/jpeg", 4)})
	require.NoError(t, err)
	product.Pictures = urls
	require.NoError(t, productRepo.Update(ctx, product))

	fileName := urls[0][strings.LastIndex(urls[0], "/")+1:]

	stranger := dbtest.CreateUser(t, db, "stranger", models.RoleArtisan)
	_, err = svc.DeleteProductFile(ctx, stranger, UploadProductPhoto, fileName)
	require.ErrorIs(t, err, ErrNotFound)

	removed, err := svc.DeleteProductFile(ctx, artisan, UploadProductPhoto, fileName)
	require.NoError(t, err)
	assert.Equal(t, urls[0], removed)
	assert.Empty(t, store.objects)

	stored, err := productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Pictures)

	_, err = svc.DeleteProductFile(ctx, artisan, UploadProductPhoto, fileName)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, fmt.Sprintf("File '%s' not found in the database.", fileName), Detail(err, ""))
}

func TestMinioStore_ObjectKey(t *testing.T) {
	s := NewMinioStore(nil, "momentum", "http://localhost:9000/")

	key, ok := s.ObjectKey("http://localhost:9000/momentum/photos/abc-a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "photos/abc-a.jpg", key)

	_, ok = s.ObjectKey("http://localhost:9000/other/photos/a.jpg")
	assert.False(t, ok)
	_, ok = s.ObjectKey("http://localhost:9000/momentum")
	assert.False(t, ok)
}
