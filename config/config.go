package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	GoEnv    string
	LogLevel string

	// Base URLs of the remote services consumed by the client SDK
	UserServiceURL    string
	RequestServiceURL string
	VehicleServiceURL string
	ImageServiceURL   string
	HTTPTimeout       time.Duration

	// Client-side persistence
	LocalDBPath string
	CacheDir    string

	// Developer backend
	DatabaseURL        string
	UserServicePort    string
	RequestServicePort string
	VehicleServicePort string
	ImageServicePort   string
	SeedData           bool
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

var current *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	timeout, err := getEnvDuration("HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	host := getEnv("SERVICE_HOST", "http://10.0.2.2")
	cfg := &Config{
		GoEnv:    getEnv("GO_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UserServiceURL:    getEnv("USER_SERVICE_URL", host+":8081"),
		RequestServiceURL: getEnv("REQUEST_SERVICE_URL", host+":8082"),
		VehicleServiceURL: getEnv("VEHICLE_SERVICE_URL", host+":8083"),
		ImageServiceURL:   getEnv("IMAGE_SERVICE_URL", host+":8084"),
		HTTPTimeout:       timeout,

		LocalDBPath: getEnv("LOCAL_DB_PATH", "fixsy.db"),
		CacheDir:    getEnv("CACHE_DIR", os.TempDir()),

		DatabaseURL:        getEnv("DATABASE_URL", "fixsy_backend.db"),
		UserServicePort:    getEnv("USER_SERVICE_PORT", "8081"),
		RequestServicePort: getEnv("REQUEST_SERVICE_PORT", "8082"),
		VehicleServicePort: getEnv("VEHICLE_SERVICE_PORT", "8083"),
		ImageServicePort:   getEnv("IMAGE_SERVICE_PORT", "8084"),
		SeedData:           getEnvBool("SEED_DATA", false),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "fixsy-dev"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "fixsy-app"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = "dev-secret-change-me"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	current = cfg
	return cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	urls := map[string]string{
		"USER_SERVICE_URL":    c.UserServiceURL,
		"REQUEST_SERVICE_URL": c.RequestServiceURL,
		"VEHICLE_SERVICE_URL": c.VehicleServiceURL,
		"IMAGE_SERVICE_URL":   c.ImageServiceURL,
	}
	for key, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
		}
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether uploaded images go to an S3 bucket instead of the database
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// String returns a printable form of the config with secrets masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{env: %s, users: %s, requests: %s, vehicles: %s, images: %s, localDB: %s, JWT: ***, AWS: ***}",
		c.GoEnv, c.UserServiceURL, c.RequestServiceURL, c.VehicleServiceURL, c.ImageServiceURL, c.LocalDBPath)
}

// GetConfig returns the configuration loaded last by Load or set by SetConfig
func GetConfig() *Config {
	return current
}

// SetConfig sets the process-wide configuration (primarily for testing)
func SetConfig(cfg *Config) {
	current = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
