package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Addr           string
	LogLevel       string
	Timezone       string
	RequestTimeout time.Duration
	SecureCookies  bool

	StoreDriver   string
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TranslateURL     string
	TranslateAPIKey  string
	TranslateTimeout time.Duration
	TranslateDelay   time.Duration

	VisionURL     string
	VisionAPIKey  string
	VisionTimeout time.Duration

	DailyPhotoLimit int
	Cooldown        time.Duration
	MissionsPerDay  int
	MissionPoints   int

	PrefetchWorkerCount int
	PrefetchQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:           envOr("ADDR", ":8080"),
		LogLevel:       envOr("LOG_LEVEL", "INFO"),
		Timezone:       envOr("TIMEZONE", "Local"),
		RequestTimeout: envDurationOr("REQUEST_TIMEOUT", 30*time.Second),
		SecureCookies:  envBoolOr("SECURE_COOKIES", false),

		StoreDriver:   strings.ToLower(envOr("STORE_DRIVER", StoreSQLite)),
		DBPath:        envOr("DB_PATH", "file:visualdex.db"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOr("REDIS_DB", 0),

		TranslateURL:     envOr("TRANSLATE_URL", "https://libretranslate.de/translate"),
		TranslateAPIKey:  os.Getenv("TRANSLATE_API_KEY"),
		TranslateTimeout: envDurationOr("TRANSLATE_TIMEOUT", 10*time.Second),
		TranslateDelay:   envDurationOr("TRANSLATE_DELAY", 800*time.Millisecond),

		VisionURL:     envOr("VISION_URL", "https://vision.googleapis.com/v1/images:annotate"),
		VisionAPIKey:  os.Getenv("VISION_API_KEY"),
		VisionTimeout: envDurationOr("VISION_TIMEOUT", 15*time.Second),

		DailyPhotoLimit: envIntOr("DAILY_PHOTO_LIMIT", 10),
		Cooldown:        envDurationOr("COOLDOWN", 12*time.Hour),
		MissionsPerDay:  envIntOr("MISSIONS_PER_DAY", 3),
		MissionPoints:   envIntOr("MISSION_POINTS", 50),

		PrefetchWorkerCount: envIntOr("PREFETCH_WORKER_COUNT", 1),
		PrefetchQueueSize:   envIntOr("PREFETCH_QUEUE_SIZE", 32),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	switch c.StoreDriver {
	case StoreSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("DB_PATH cannot be empty when STORE_DRIVER=sqlite")
		}
	case StoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty when STORE_DRIVER=redis")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of sqlite, redis, memory (got %q)", c.StoreDriver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT cannot be negative")
	}
	if c.TranslateTimeout <= 0 {
		return fmt.Errorf("TRANSLATE_TIMEOUT must be positive")
	}
	if c.TranslateDelay < 0 {
		return fmt.Errorf("TRANSLATE_DELAY cannot be negative")
	}
	if c.VisionTimeout <= 0 {
		return fmt.Errorf("VISION_TIMEOUT must be positive")
	}
	if c.DailyPhotoLimit < 1 {
		return fmt.Errorf("DAILY_PHOTO_LIMIT must be at least 1")
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("COOLDOWN must be positive")
	}
	if c.MissionsPerDay < 1 {
		return fmt.Errorf("MISSIONS_PER_DAY must be at least 1")
	}
	if c.MissionPoints < 0 {
		return fmt.Errorf("MISSION_POINTS cannot be negative")
	}
	if c.PrefetchWorkerCount < 1 {
		return fmt.Errorf("PREFETCH_WORKER_COUNT must be at least 1")
	}
	if c.PrefetchQueueSize < 1 {
		return fmt.Errorf("PREFETCH_QUEUE_SIZE must be at least 1")
	}
	return nil
}

// Location resolves Timezone. Calendar-day identity is computed in this zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// TranslateBatchTimeout is the share of RequestTimeout a translation batch may
// spend before the remaining sentences fall back to local translation. Zero
// means no batch deadline.
func (c Config) TranslateBatchTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return c.RequestTimeout * 3 / 4
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
