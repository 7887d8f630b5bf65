package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ServerAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis配置
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// CacheBackend 响应缓存后端: "memory" 或 "redis"
	CacheBackend string

	// MusicBrainz 目录服务
	MusicBrainzBaseURL   string
	MusicBrainzUserAgent string
	MusicBrainzRateLimit time.Duration
	MusicBrainzTimeout   time.Duration
	CoverArtBaseURL      string

	// Last.fm 热度排序服务
	LastFMBaseURL string
	LastFMAPIKey  string

	// Odesli (song.link) 链接聚合服务
	OdesliBaseURL     string
	OdesliUserCountry string

	SearchHitTimeout   time.Duration
	HydrationWorkers   int
	HydrationQueueSize int

	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration accepts either a Go duration string ("8s") or a bare number of milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment without touching .env.
func FromEnv() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // For password, better not to have a hardcoded default
		DBName:     getEnv("DB_NAME", "vinylx"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),

		MusicBrainzBaseURL:   getEnv("MUSICBRAINZ_BASE_URL", "https://musicbrainz.org/ws/2"),
		MusicBrainzUserAgent: getEnv("MUSICBRAINZ_USER_AGENT", "VinylX/1.0.0 (https://github.com/vinylx)"),
		MusicBrainzRateLimit: getEnvDuration("MUSICBRAINZ_RATE_LIMIT_MS", 1100*time.Millisecond),
		MusicBrainzTimeout:   getEnvDuration("MUSICBRAINZ_TIMEOUT", 10*time.Second),
		CoverArtBaseURL:      getEnv("COVER_ART_BASE_URL", "https://coverartarchive.org"),

		LastFMBaseURL: getEnv("LASTFM_BASE_URL", "https://ws.audioscrobbler.com/2.0"),
		LastFMAPIKey:  os.Getenv("LASTFM_API_KEY"),

		OdesliBaseURL:     getEnv("ODESLI_BASE_URL", "https://api.song.link/v1-alpha.1/links"),
		OdesliUserCountry: getEnv("ODESLI_USER_COUNTRY", "US"),

		SearchHitTimeout:   getEnvDuration("SEARCH_HIT_TIMEOUT", 8*time.Second),
		HydrationWorkers:   getEnvInt("HYDRATION_WORKERS", 2),
		HydrationQueueSize: getEnvInt("HYDRATION_QUEUE_SIZE", 256),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "logs/vinylx.log"),
	}
}
