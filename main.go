package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/controllers"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/seed"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting Fixsy developer backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration: %s", cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := setupDatabase(ctx, cfg); err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	if err := setupImageService(ctx, cfg); err != nil {
		log.Fatalf("Failed to set up image storage: %v", err)
	}

	servers := newServers(cfg, controllers.SetupRouter(cfg))
	if err := serve(ctx, servers); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

// setupDatabase connects, migrates and optionally seeds the backend store
func setupDatabase(ctx context.Context, cfg *config.Config) error {
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.AutoMigrate(models.BackendModels()...); err != nil {
		return err
	}
	log.Println("Database migration completed successfully")

	if cfg.SeedData {
		return seed.Backend(ctx, db)
	}
	return nil
}

// setupImageService keeps image bytes in S3 when a bucket is configured and in
// the database otherwise
func setupImageService(ctx context.Context, cfg *config.Config) error {
	if !cfg.UsesS3() {
		services.InitImageService(nil)
		log.Println("Storing images in the database")
		return nil
	}

	s3Service, err := services.NewS3Service(ctx, cfg)
	if err != nil {
		return err
	}
	services.InitImageService(s3Service)
	log.Printf("Storing images in S3 bucket %s", cfg.AWSS3Bucket)
	return nil
}

// newServers exposes handler on the port of every service the client talks to
func newServers(cfg *config.Config, handler http.Handler) []*http.Server {
	ports := []string{cfg.UserServicePort, cfg.RequestServicePort, cfg.VehicleServicePort, cfg.ImageServicePort}

	seen := make(map[string]bool)
	var servers []*http.Server
	for _, port := range ports {
		if port == "" || seen[port] {
			continue
		}
		seen[port] = true
		servers = append(servers, &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}
	return servers
}

// serve runs every server until ctx is done or one of them fails, then shuts
// all of them down
func serve(ctx context.Context, servers []*http.Server) error {
	errCh := make(chan error, len(servers))
	var wg sync.WaitGroup
	for _, srv := range servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			log.Printf("Server is running on http://localhost%s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shut down %s: %v", srv.Addr, err)
		}
	}
	wg.Wait()
	return runErr
}
