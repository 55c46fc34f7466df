package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/controllers"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/seed"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServers(t *testing.T) {
	tests := []struct {
		name      string
		ports     [4]string
		wantAddrs []string
	}{
		{"one server per service", [4]string{"8081", "8082", "8083", "8084"}, []string{":8081", ":8082", ":8083", ":8084"}},
		{"shared port is served once", [4]string{"8080", "8080", "8080", "8080"}, []string{":8080"}},
		{"empty ports are skipped", [4]string{"8081", "", "8083", ""}, []string{":8081", ":8083"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				UserServicePort:    tt.ports[0],
				RequestServicePort: tt.ports[1],
				VehicleServicePort: tt.ports[2],
				ImageServicePort:   tt.ports[3],
			}
			servers := newServers(cfg, http.NotFoundHandler())

			var addrs []string
			for _, srv := range servers {
				addrs = append(addrs, srv.Addr)
			}
			assert.Equal(t, tt.wantAddrs, addrs)
		})
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	servers := []*http.Server{{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, servers) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestSetupDatabaseSeedsOnce(t *testing.T) {
	testutil.RequireTestEnvironmentOrSkip(t)

	cfg := testutil.Config("http://localhost")
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "backend.db")
	cfg.SeedData = true

	ctx := context.Background()
	require.NoError(t, setupDatabase(ctx, cfg))
	require.NoError(t, setupDatabase(ctx, cfg))
	t.Cleanup(func() {
		if sqlDB, err := config.GetDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var users int64
	require.NoError(t, config.GetDB().Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(len(seed.Users())), users)
}

func TestSetupImageServiceWithoutBucket(t *testing.T) {
	t.Cleanup(func() { services.SetImageService(nil) })

	require.NoError(t, setupImageService(context.Background(), &config.Config{}))
	assert.IsType(t, &services.DBImageService{}, services.GetImageService())
}

func TestBackendHealthOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testutil.Config("http://localhost")
	srv := httptest.NewServer(controllers.SetupRouter(cfg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
}
