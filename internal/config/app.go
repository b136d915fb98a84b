package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type AppConfig struct {
	Addr               string
	StoreBackend       string
	MongoURI           string
	MongoDatabase      string
	FirestoreProjectID string
	RedisURL           string
	JWTKey             string
	TokenTTL           time.Duration
	CORSOrigin         string
	ToastDuration      time.Duration
	ConfirmTimeout     time.Duration
	LogLevel           string
}

// Load reads the configuration from the environment. Call bootstrap.Loadenv
// first to pick up a .env file.
func Load() AppConfig {
	return AppConfig{
		Addr:               getenv("CMS_ADDR", ":8080"),
		StoreBackend:       getenv("STORE_BACKEND", BackendMongo),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getenv("MONGO_DATABASE", "school_cms"),
		FirestoreProjectID: getenv("FIRESTORE_PROJECT_ID", ""),
		RedisURL:           getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTKey:             os.Getenv("JWT_KEY"),
		TokenTTL:           time.Duration(getenvInt("TOKEN_TTL_MINUTES", 720)) * time.Minute,
		CORSOrigin:         getenv("CORS_ORIGIN", "http://localhost:5173"),
		ToastDuration:      time.Duration(getenvInt("TOAST_DURATION_MS", 3000)) * time.Millisecond,
		ConfirmTimeout:     time.Duration(getenvInt("CONFIRM_TIMEOUT_SECONDS", 60)) * time.Second,
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}
}

// Validate reports settings the server cannot start without.
func (c AppConfig) Validate() error {
	var errs []error
	if c.JWTKey == "" {
		errs = append(errs, errors.New("JWT_KEY not set"))
	}
	switch c.StoreBackend {
	case BackendMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI not set"))
		}
	case BackendFirestore:
		if c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID not set"))
		}
	case BackendMemory:
	default:
		errs = append(errs, errors.New("STORE_BACKEND must be mongo, firestore or memory"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
