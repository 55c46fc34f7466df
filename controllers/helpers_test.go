package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/seed"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// backend is a seeded developer backend behind a test router
type backend struct {
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
}

func setupBackend(t *testing.T) *backend {
	t.Helper()

	db := testutil.OpenBackendDB(t)
	require.NoError(t, seed.Backend(context.Background(), db))
	config.SetDB(db)

	cfg := testutil.Config("http://localhost")
	config.SetConfig(cfg)

	services.SetImageService(services.NewDBImageService())
	t.Cleanup(func() { services.SetImageService(nil) })

	return &backend{db: db, cfg: cfg, router: SetupRouter(cfg)}
}

// as returns the Authorization header of the seeded user with fixture id
func (b *backend) as(t *testing.T, id int64) string {
	t.Helper()
	var user models.User
	require.NoError(t, b.db.First(&user, id).Error)
	return testutil.BearerHeader(t, b.cfg, user)
}

func (b *backend) do(t *testing.T, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.True(t, env.Success, w.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
