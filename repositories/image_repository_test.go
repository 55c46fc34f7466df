package repositories

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/testutil"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes renders a noisy image, which compresses badly as PNG
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngReader(t *testing.T, w, h int) io.Reader {
	return bytes.NewReader(pngBytes(t, w, h))
}

func newImageRepo(t *testing.T) (*ImageRepository, *RequestHistoryRepository, *fakeImageRemote) {
	db := testutil.OpenLocalDB(t)
	remote := newFakeImageRemote()
	return NewImageRepository(db, remote, filepath.Join(t.TempDir(), "cache")), NewRequestHistoryRepository(db), remote
}

func TestImageRepository_SaveAndExport(t *testing.T) {
	ctx := context.Background()
	repo, history, _ := newImageRepo(t)

	h := &models.RequestHistory{UserID: 1, ServiceType: "Pintura"}
	require.NoError(t, history.Create(ctx, h))

	original := pngBytes(t, 20, 20)
	saved, err := repo.SaveFromReader(ctx, h.ID, "rayon.png", bytes.NewReader(original))
	require.NoError(t, err)
	assert.Equal(t, "image/png", saved.MimeType)
	assert.Equal(t, "rayon.png", saved.FileName)
	assert.Equal(t, original, saved.Data, "small images are stored untouched")

	path, err := repo.ExportToCache(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, onDisk)

	again, err := repo.ExportToCache(ctx, saved.ID)
	require.NoError(t, err)
	assert.NotEqual(t, path, again, "every export gets its own file")

	list, err := repo.ListForRequest(ctx, h.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestImageRepository_LargeImagesAreShrunk(t *testing.T) {
	ctx := context.Background()
	repo, history, _ := newImageRepo(t)
	repo.maxBytes = 20 * 1024

	h := &models.RequestHistory{UserID: 1, ServiceType: "Pintura"}
	require.NoError(t, history.Create(ctx, h))

	saved, err := repo.SaveFromReader(ctx, h.ID, "grande.png", pngReader(t, 300, 300))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(saved.Data), 20*1024)
	assert.Equal(t, "image/jpeg", saved.MimeType)
	assert.Equal(t, "grande.jpg", saved.FileName)
}

func TestImageRepository_SaveFromFile(t *testing.T) {
	ctx := context.Background()
	repo, history, _ := newImageRepo(t)

	h := &models.RequestHistory{UserID: 1, ServiceType: "Motor"}
	require.NoError(t, history.Create(ctx, h))

	path := filepath.Join(t.TempDir(), "motor.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 8, 8), 0o600))

	saved, err := repo.SaveFromFile(ctx, h.ID, path)
	require.NoError(t, err)
	assert.Equal(t, "motor.png", saved.FileName)

	_, err = repo.SaveFromFile(ctx, h.ID, filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestImageRepository_RejectsNonImages(t *testing.T) {
	ctx := context.Background()
	repo, history, _ := newImageRepo(t)

	h := &models.RequestHistory{UserID: 1, ServiceType: "Motor"}
	require.NoError(t, history.Create(ctx, h))

	_, err := repo.SaveFromReader(ctx, h.ID, "notas.txt", strings.NewReader("esto no es una imagen"))
	var uploadErr *utils.FileUploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)

	_, err = repo.SaveFromReader(ctx, h.ID, "vacio.png", strings.NewReader(""))
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "EMPTY_FILE", uploadErr.Code)
}

func TestImageRepository_RequiresExistingRequest(t *testing.T) {
	repo, _, _ := newImageRepo(t)
	_, err := repo.SaveFromReader(context.Background(), 404, "x.png", pngReader(t, 4, 4))
	assert.Error(t, err)
}

func TestImageRepository_DeleteLocal(t *testing.T) {
	ctx := context.Background()
	repo, history, _ := newImageRepo(t)

	h := &models.RequestHistory{UserID: 1, ServiceType: "Motor"}
	require.NoError(t, history.Create(ctx, h))
	saved, err := repo.SaveFromReader(ctx, h.ID, "a.png", pngReader(t, 4, 4))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), ErrNotFound)
	_, err = repo.ExportToCache(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImageRepository_RemotePath(t *testing.T) {
	ctx := context.Background()
	repo, history, remote := newImageRepo(t)

	uploaded, err := repo.Upload(ctx, services.EntityVehicle, 9, "auto.png", pngReader(t, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, "image/png", uploaded.MimeType)

	h := &models.RequestHistory{UserID: 1, ServiceType: "Motor"}
	require.NoError(t, history.Create(ctx, h))
	local, err := repo.SaveFromReader(ctx, h.ID, "motor.png", pngReader(t, 6, 6))
	require.NoError(t, err)

	sent, err := repo.UploadStored(ctx, local.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, services.EntityServiceRequest, sent.EntityType)
	assert.Equal(t, int64(300), sent.EntityID)
	assert.Equal(t, local.Data, sent.Data)

	fetched, err := repo.FetchRemote(ctx, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, uploaded.Data, fetched.Data)

	listed, err := repo.ListRemote(ctx, services.EntityVehicle, 9)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, repo.DeleteRemote(ctx, uploaded.ID))
	assert.Len(t, remote.images, 1)

	_, err = repo.Upload(ctx, services.EntityVehicle, 9, "x.txt", strings.NewReader("texto"))
	assert.Error(t, err)
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "a.jpg", withExt("a.png", ".jpg"))
	assert.Equal(t, "a.jpeg", withExt("a.jpeg", ".jpg"))
	assert.Equal(t, "a.PNG", withExt("a.PNG", ".png"))
	assert.Equal(t, "imagen.jpg", withExt("", ".jpg"))
	assert.Equal(t, "sin_ext.png", withExt("sin_ext", ".png"))
}
