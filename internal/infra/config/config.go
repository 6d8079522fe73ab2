package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	EarthEngine EarthEngineConfig `yaml:"earthEngine"`
	Bloom       BloomConfig       `yaml:"bloom"`
	Forecast    ForecastConfig    `yaml:"forecast"`
	Chatbot     ChatbotConfig     `yaml:"chatbot"`
	Cache       CacheConfig       `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// EarthEngineConfig describes the vegetation index and imagery provider.
type EarthEngineConfig struct {
	Project         string        `yaml:"project"`
	BaseURL         string        `yaml:"baseUrl"`
	HighVolumeURL   string        `yaml:"highVolumeUrl"`
	ServiceAccount  string        `yaml:"serviceAccount"`
	KeyFile         string        `yaml:"keyFile"`
	Timeout         time.Duration `yaml:"timeout"`
	Collection      string        `yaml:"collection"`
	Band            string        `yaml:"band"`
	ScaleFactor     float64       `yaml:"scaleFactor"`
	RadiusMeters    float64       `yaml:"radiusMeters"`
	ScaleMeters     float64       `yaml:"scaleMeters"`
	MaxPixels       int64         `yaml:"maxPixels"`
	ThumbnailBuffer float64       `yaml:"thumbnailBufferMeters"`
	ThumbnailPixels int           `yaml:"thumbnailPixels"`
	Palette         []string      `yaml:"palette"`
}

// BloomConfig controls the map query domain.
type BloomConfig struct {
	FallbackIndex float64       `yaml:"fallbackIndex"`
	Species       string        `yaml:"species"`
	CacheTTL      time.Duration `yaml:"cacheTtl"`
}

// ForecastConfig locates the forecast artifact.
type ForecastConfig struct {
	ModelPath      string            `yaml:"modelPath"`
	CandidatePaths []string          `yaml:"candidatePaths"`
	ObjectStore    ObjectStoreConfig `yaml:"objectStore"`
}

// ObjectStoreConfig holds S3-compatible credentials for s3:// artifact paths.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
}

// ChatbotConfig controls the bloom chatbot.
type ChatbotConfig struct {
	ReferencePath     string         `yaml:"referencePath"`
	FallbackLatitude  float64        `yaml:"fallbackLatitude"`
	FallbackLongitude float64        `yaml:"fallbackLongitude"`
	Semantic          SemanticConfig `yaml:"semantic"`
}

// SemanticConfig enables the optional embedding tier.
type SemanticConfig struct {
	Enabled        bool           `yaml:"enabled"`
	IndexPath      string         `yaml:"indexPath"`
	APIKey         string         `yaml:"apiKey"`
	BaseURL        string         `yaml:"baseUrl"`
	EmbeddingModel string         `yaml:"embeddingModel"`
	Timeout        time.Duration  `yaml:"timeout"`
	Postgres       PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CacheConfig controls the vegetation reading cache.
type CacheConfig struct {
	Enabled bool        `yaml:"enabled"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads an optional dotenv file, then the YAML file, then environment variables.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadEnvFile is for local development; variables already set win.
func loadEnvFile() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("GEE_PROJECT"); v != "" {
		cfg.EarthEngine.Project = v
	}
	if v := os.Getenv("GEE_SERVICE_ACCOUNT"); v != "" {
		cfg.EarthEngine.ServiceAccount = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.EarthEngine.KeyFile = v
	}
	if v := os.Getenv("GEE_BASE_URL"); v != "" {
		cfg.EarthEngine.BaseURL = v
	}
	if v := os.Getenv("GEE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.EarthEngine.Timeout = parsed
		}
	}
	if v := os.Getenv("BLOOM_FALLBACK_INDEX"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Bloom.FallbackIndex = parsed
		}
	}
	if v := os.Getenv("BLOOM_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Bloom.CacheTTL = parsed
		}
	}
	if v := os.Getenv("BLOOM_MODEL_PATH"); v != "" {
		cfg.Forecast.ModelPath = v
	}
	if v := os.Getenv("BLOOM_MODEL_S3_ENDPOINT"); v != "" {
		cfg.Forecast.ObjectStore.Endpoint = v
	}
	if v := os.Getenv("BLOOM_MODEL_S3_ACCESS_KEY"); v != "" {
		cfg.Forecast.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("BLOOM_MODEL_S3_SECRET_KEY"); v != "" {
		cfg.Forecast.ObjectStore.SecretKey = v
	}
	if v := os.Getenv("BLOOM_MODEL_S3_REGION"); v != "" {
		cfg.Forecast.ObjectStore.Region = v
	}
	if v := os.Getenv("BLOOM_REFERENCE_PATH"); v != "" {
		cfg.Chatbot.ReferencePath = v
	}
	if v := os.Getenv("CHATBOT_SEMANTIC_ENABLED"); v != "" {
		cfg.Chatbot.Semantic.Enabled = parseBool(v)
	}
	if v := os.Getenv("CHATBOT_SEMANTIC_INDEX_PATH"); v != "" {
		cfg.Chatbot.Semantic.IndexPath = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.Chatbot.Semantic.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.Chatbot.Semantic.BaseURL = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.Chatbot.Semantic.EmbeddingModel = v
	}
	if v := os.Getenv("CHATBOT_POSTGRES_DSN"); v != "" {
		cfg.Chatbot.Semantic.Postgres.DSN = v
	}
	if v := os.Getenv("CHATBOT_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chatbot.Semantic.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8000",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		EarthEngine: EarthEngineConfig{
			BaseURL:         "https://earthengine.googleapis.com",
			HighVolumeURL:   "https://earthengine-highvolume.googleapis.com",
			Timeout:         20 * time.Second,
			Collection:      "MODIS/061/MOD13Q1",
			Band:            "NDVI",
			ScaleFactor:     0.0001,
			RadiusMeters:    250,
			ScaleMeters:     250,
			MaxPixels:       1_000_000,
			ThumbnailBuffer: 2000,
			ThumbnailPixels: 512,
			Palette:         []string{"brown", "beige", "yellow", "green"},
		},
		Bloom: BloomConfig{
			FallbackIndex: 0.45,
			Species:       "Hibiscus",
			CacheTTL:      6 * time.Hour,
		},
		Forecast: ForecastConfig{
			CandidatePaths: []string{"bloom_forecast_model.json", "../bloom_forecast_model.json"},
		},
		Chatbot: ChatbotConfig{
			ReferencePath:     "data/bloom_reference.csv",
			FallbackLatitude:  20.5937,
			FallbackLongitude: 78.9629,
			Semantic: SemanticConfig{
				EmbeddingModel: "text-embedding-3-small",
				Timeout:        10 * time.Second,
				Postgres: PostgresConfig{
					MaxConns: 4,
				},
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.EarthEngine.BaseURL) == "" {
		return errors.New("earthEngine.baseUrl cannot be empty")
	}
	if c.EarthEngine.Timeout <= 0 {
		return errors.New("earthEngine.timeout must be positive")
	}
	if c.EarthEngine.RadiusMeters <= 0 || c.EarthEngine.ScaleMeters <= 0 {
		return errors.New("earthEngine.radiusMeters and scaleMeters must be positive")
	}
	if c.EarthEngine.MaxPixels <= 0 {
		return errors.New("earthEngine.maxPixels must be positive")
	}
	if len(c.EarthEngine.Palette) == 0 {
		return errors.New("earthEngine.palette cannot be empty")
	}
	if c.Bloom.CacheTTL < 0 {
		return errors.New("bloom.cacheTtl cannot be negative")
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Chatbot.Semantic.Enabled {
		if strings.TrimSpace(c.Chatbot.Semantic.EmbeddingModel) == "" {
			return errors.New("chatbot.semantic.embeddingModel cannot be empty")
		}
		if strings.TrimSpace(c.Chatbot.Semantic.IndexPath) == "" && strings.TrimSpace(c.Chatbot.Semantic.Postgres.DSN) == "" {
			return errors.New("chatbot.semantic requires indexPath or postgres.dsn")
		}
	}
	return nil
}
