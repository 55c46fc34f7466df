package controllers

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadBody(data []byte, fileName string) services.UploadImageRequest {
	return services.UploadImageRequest{
		EntityType: "service_request",
		EntityID:   1,
		FileName:   fileName,
		Data:       base64.StdEncoding.EncodeToString(data),
	}
}

func TestUploadImageValidation(t *testing.T) {
	b := setupBackend(t)
	auth := b.as(t, 1)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not base64",
			body:           services.UploadImageRequest{EntityType: "service_request", EntityID: 1, Data: "%%%"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_DATA",
		},
		{
			name:           "not an image",
			body:           uploadBody([]byte("%PDF-1.4 not an image at all"), "doc.pdf"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_FILE_FORMAT",
		},
		{
			name:           "missing entity",
			body:           services.UploadImageRequest{Data: base64.StdEncoding.EncodeToString(tinyPNG(t))},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := b.do(t, http.MethodPost, "/api/images", tt.body, auth)
			expectStatus(t, w, tt.expectedStatus)
			env := decode(t, w, nil)
			assert.Equal(t, tt.expectedCode, env.Error.Code)
		})
	}
}

func TestImageLifecycleInDatabase(t *testing.T) {
	b := setupBackend(t)
	auth := b.as(t, 1)
	data := tinyPNG(t)

	w := b.do(t, http.MethodPost, "/api/images", uploadBody(data, "foto.jpeg"), auth)
	expectStatus(t, w, http.StatusCreated)
	var uploaded services.ImageDTO
	decode(t, w, &uploaded)
	assert.Equal(t, "image/png", uploaded.MimeType)
	assert.Equal(t, "foto.png", uploaded.FileName)
	assert.Equal(t, int64(len(data)), uploaded.Size)
	assert.Empty(t, uploaded.URL)

	w = b.do(t, http.MethodGet, "/api/images/"+itoa(uploaded.ID), nil, auth)
	expectStatus(t, w, http.StatusOK)
	var fetched services.ImageDTO
	decode(t, w, &fetched)
	raw, err := base64.StdEncoding.DecodeString(fetched.Data)
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	w = b.do(t, http.MethodGet, "/api/images/entity/service_request/1", nil, auth)
	expectStatus(t, w, http.StatusOK)
	var list []services.ImageDTO
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Data, "listings carry metadata only")

	w = b.do(t, http.MethodDelete, "/api/images/"+itoa(uploaded.ID), nil, auth)
	expectStatus(t, w, http.StatusOK)

	w = b.do(t, http.MethodGet, "/api/images/"+itoa(uploaded.ID), nil, auth)
	expectStatus(t, w, http.StatusNotFound)
}

func TestImageLifecycleInS3(t *testing.T) {
	b := setupBackend(t)
	auth := b.as(t, 1)

	bucket := services.NewMockS3Service()
	services.InitImageService(bucket)

	w := b.do(t, http.MethodPost, "/api/images", uploadBody(tinyPNG(t), "foto.png"), auth)
	expectStatus(t, w, http.StatusCreated)
	var uploaded services.ImageDTO
	decode(t, w, &uploaded)
	assert.NotEmpty(t, uploaded.URL)
	assert.Equal(t, 1, bucket.Len())

	var stored models.Image
	require.NoError(t, b.db.First(&stored, uploaded.ID).Error)
	assert.Empty(t, stored.Data, "bytes live in the bucket")
	assert.True(t, bucket.ObjectExists(stored.StorageKey))

	w = b.do(t, http.MethodGet, "/api/images/"+itoa(uploaded.ID), nil, auth)
	expectStatus(t, w, http.StatusOK)
	var fetched services.ImageDTO
	decode(t, w, &fetched)
	assert.NotEmpty(t, fetched.Data)

	w = b.do(t, http.MethodDelete, "/api/images/"+itoa(uploaded.ID), nil, auth)
	expectStatus(t, w, http.StatusOK)
	assert.Zero(t, bucket.Len())
}

func TestImagesRequireToken(t *testing.T) {
	b := setupBackend(t)

	w := b.do(t, http.MethodGet, "/api/images/entity/service_request/1", nil, "")
	expectStatus(t, w, http.StatusUnauthorized)
}
