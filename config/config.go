package config

import (
	"sync"
	"time"
	"yelo_server/structs"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "Yelo_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8082"),
				ReadTimeout:    getEnvAsSeconds("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsSeconds("SERVER_WRITE_TIME_OUT", 15*time.Second),
				IdleTimeout:    getEnvAsSeconds("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			},
			Cors: &structs.CorsConfig{
				AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"localhost", "http://localhost:3000"}),
				AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
				AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "Authorization"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Database: &structs.DatabaseConfig{
				Host:         getEnvAsString("DB_HOST", "localhost"),
				Port:         getEnvAsInt("DB_PORT", 5432),
				User:         getEnvAsString("DB_USER", "postgres"),
				Password:     getEnvAsString("DB_PASSWORD", "password"),
				Name:         getEnvAsString("DB_NAME", "yelo_db"),
				MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:  getEnvAsSeconds("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:  getEnvAsSeconds("DB_MAX_IDLE_TIME", 5*time.Minute),
				ReadTimeout:  getEnvAsSeconds("DB_READ_TIMEOUT", 5*time.Second),
				WriteTimeout: getEnvAsSeconds("DB_WRITE_TIMEOUT", 5*time.Second),
			},
			Auth: &structs.AuthConfig{
				AccessTokenSecret: getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
				AccessTokenExpiry: getEnvAsSeconds("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			},
			Cache: &structs.CacheConfig{
				Address:  getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
				Username: getEnvAsString("REDIS_USERNAME", ""),
				Password: getEnvAsString("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),

				PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
				MaxIdleConns: getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
				PoolTimeout:  getEnvAsSeconds("REDIS_POOL_TIMEOUT", 4*time.Second),
				IdleTimeout:  getEnvAsSeconds("REDIS_IDLE_TIMEOUT", 5*time.Minute),

				DialTimeout:  getEnvAsSeconds("REDIS_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:  getEnvAsSeconds("REDIS_READ_TIMEOUT", 3*time.Second),
				WriteTimeout: getEnvAsSeconds("REDIS_WRITE_TIMEOUT", 3*time.Second),

				MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
				MinRetryBackoff: getEnvAsMillis("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
				MaxRetryBackoff: getEnvAsMillis("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),

				CollectionTTL: getEnvAsMillis("CACHE_COLLECTION_TTL", 5*time.Minute),
			},
			Storage: &structs.StorageConfig{
				Endpoint:  getEnvAsString("STORAGE_ENDPOINT", "localhost:9000"),
				AccessKey: getEnvAsString("STORAGE_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnvAsString("STORAGE_SECRET_KEY", "minioadmin"),
				Bucket:    getEnvAsString("STORAGE_BUCKET", "yelo-images"),
				PublicURL: getEnvAsString("STORAGE_PUBLIC_URL", "http://localhost:9000/yelo-images"),
				UseSSL:    getEnvAsBool("STORAGE_USE_SSL", false),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),

				AdminLimit:  getEnvAsInt("RATE_LIMIT_ADMIN", 120),
				AdminWindow: getEnvAsSeconds("RATE_LIMIT_ADMIN_WINDOW", time.Minute),

				UploadLimit:  getEnvAsInt("RATE_LIMIT_UPLOAD", 30),
				UploadWindow: getEnvAsSeconds("RATE_LIMIT_UPLOAD_WINDOW", time.Minute),

				ExpensiveLimit:  getEnvAsInt("RATE_LIMIT_EXPENSIVE", 60),
				ExpensiveWindow: getEnvAsSeconds("RATE_LIMIT_EXPENSIVE_WINDOW", time.Minute),

				GeneralLimit:  getEnvAsInt("RATE_LIMIT_GENERAL", 300),
				GeneralWindow: getEnvAsSeconds("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
			},
			Compression: &structs.CompressionConfig{
				BaseURL:        getEnvAsString("COMPRESSION_BASE_URL", "http://localhost:8083"),
				DefaultQuality: getEnvAsInt("COMPRESSION_DEFAULT_QUALITY", 20),
				RequestTimeout: getEnvAsSeconds("COMPRESSION_REQUEST_TIMEOUT", 30*time.Second),
			},
		}
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
