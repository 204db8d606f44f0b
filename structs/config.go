package structs

import "time"

type Config struct {
	Server      *ServerConfig
	Cors        *CorsConfig
	Database    *DatabaseConfig
	Auth        *AuthConfig
	Cache       *CacheConfig
	Storage     *StorageConfig
	Compression *CompressionConfig
	RateLimit   *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Yelo
	Environment    string        // development, production
	Port           string        // :8080
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration // in seconds
	MaxIdleTime  time.Duration // in seconds
	ReadTimeout  time.Duration // in seconds
	WriteTimeout time.Duration // in seconds
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
}

type CacheConfig struct {
	Address  string
	Username string
	Password string
	DB       int

	// Connection pool settings
	PoolSize     int
	MinIdleConns int
	MaxIdleConns int
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration

	// Timeouts
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Retry settings
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration

	// Freshness window for collection caches (products/shops/vendors lists)
	CollectionTTL time.Duration
}

// StorageConfig configures the MinIO-backed image hosting service.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // base URL the uploaded objects are served from
	UseSSL    bool
}

// RateLimitConfig holds per-endpoint-class request budgets.
type RateLimitConfig struct {
	Enabled bool

	AdminLimit  int
	AdminWindow time.Duration

	UploadLimit  int
	UploadWindow time.Duration

	ExpensiveLimit  int
	ExpensiveWindow time.Duration

	GeneralLimit  int
	GeneralWindow time.Duration
}

// CompressionConfig configures the ConvertAPI-backed remote compression tier.
type CompressionConfig struct {
	BaseURL        string        // compression service base URL
	DefaultQuality int           // 1-100, aggressive default targets 20-30 KB output
	RequestTimeout time.Duration // per HTTP round trip
}
