package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	ObjectStore ObjectStoreConfig
	Engines     EngineConfig
	Cleanup     CleanupConfig
	Limits      LimitConfig
	Logger      LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

type ObjectStoreConfig struct {
	Backend string // "fs" or "s3"
	Root    string // fs backend root directory
	S3      S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type EngineConfig struct {
	TrainingURL  string
	ProfilingURL string
	Timeout      time.Duration
}

type CleanupConfig struct {
	RetentionHours int
	GracePeriod    time.Duration
	SweepInterval  time.Duration
	LeaseTTL       time.Duration
	LogRingSize    int
}

type LimitConfig struct {
	MaxRows       int
	MaxColumns    int
	MinRows       int
	MaxFileSizeMB int
}

type LoggerConfig struct {
	Level  string
	Format string
}

func (l LimitConfig) MaxFileSizeBytes() int64 {
	return int64(l.MaxFileSizeMB) * 1024 * 1024
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DB_NAME", "automl")
	v.SetDefault("MONGODB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("MONGODB_QUERY_TIMEOUT", "30s")
	v.SetDefault("OBJECT_STORE_BACKEND", "fs")
	v.SetDefault("OBJECT_STORE_ROOT", "./storage")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("TRAINING_ENGINE_URL", "http://localhost:8090")
	v.SetDefault("PROFILING_ENGINE_URL", "http://localhost:8091")
	v.SetDefault("ENGINE_TIMEOUT", "10m")
	v.SetDefault("FILE_RETENTION_HOURS", 24)
	v.SetDefault("SWEEP_GRACE_PERIOD", "1h")
	v.SetDefault("SWEEP_INTERVAL", "1h")
	v.SetDefault("SWEEP_LEASE_TTL", "10m")
	v.SetDefault("CLEANUP_LOG_RING_SIZE", 50)
	v.SetDefault("MAX_DATASET_ROWS", 5000)
	v.SetDefault("MAX_DATASET_COLUMNS", 50)
	v.SetDefault("MIN_DATASET_ROWS", 10)
	v.SetDefault("MAX_FILE_SIZE_MB", 20)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("MONGODB_URI"),
			Database:       v.GetString("MONGODB_DB_NAME"),
			ConnectTimeout: v.GetDuration("MONGODB_CONNECT_TIMEOUT"),
			QueryTimeout:   v.GetDuration("MONGODB_QUERY_TIMEOUT"),
		},
		ObjectStore: ObjectStoreConfig{
			Backend: v.GetString("OBJECT_STORE_BACKEND"),
			Root:    v.GetString("OBJECT_STORE_ROOT"),
			S3: S3Config{
				Bucket:          v.GetString("S3_BUCKET"),
				Region:          v.GetString("S3_REGION"),
				Endpoint:        v.GetString("S3_ENDPOINT"),
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			},
		},
		Engines: EngineConfig{
			TrainingURL:  v.GetString("TRAINING_ENGINE_URL"),
			ProfilingURL: v.GetString("PROFILING_ENGINE_URL"),
			Timeout:      v.GetDuration("ENGINE_TIMEOUT"),
		},
		Cleanup: CleanupConfig{
			RetentionHours: v.GetInt("FILE_RETENTION_HOURS"),
			GracePeriod:    v.GetDuration("SWEEP_GRACE_PERIOD"),
			SweepInterval:  v.GetDuration("SWEEP_INTERVAL"),
			LeaseTTL:       v.GetDuration("SWEEP_LEASE_TTL"),
			LogRingSize:    v.GetInt("CLEANUP_LOG_RING_SIZE"),
		},
		Limits: LimitConfig{
			MaxRows:       v.GetInt("MAX_DATASET_ROWS"),
			MaxColumns:    v.GetInt("MAX_DATASET_COLUMNS"),
			MinRows:       v.GetInt("MIN_DATASET_ROWS"),
			MaxFileSizeMB: v.GetInt("MAX_FILE_SIZE_MB"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
