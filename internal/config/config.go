package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"
)

// Supported document storage drivers
const (
	StorageDriverLocal = "local"
	StorageDriverMinio = "minio"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Host         string `yaml:"host" env:"SERVER_HOST"`
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ResetOnStartup  bool   `yaml:"reset_on_startup" env:"DB_RESET_ON_STARTUP"`
	} `yaml:"database"`

	Storage struct {
		Driver            string   `yaml:"driver" env:"STORAGE_DRIVER"`
		Path              string   `yaml:"path" env:"STORAGE_PATH"`
		AllowedExtensions []string `yaml:"allowed_extensions" env:"STORAGE_ALLOWED_EXTENSIONS"`
		MaxUploadSize     int64    `yaml:"max_upload_size" env:"STORAGE_MAX_UPLOAD_SIZE"`
		RemoveSuperseded  bool     `yaml:"remove_superseded" env:"STORAGE_REMOVE_SUPERSEDED"`

		Minio struct {
			Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
			Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
			UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
		} `yaml:"minio"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file is not an error; defaults and env vars still apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	normalize(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Host = "0.0.0.0"
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "30s"

	config.Database.Driver = DatabaseDriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "employees"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ResetOnStartup = true

	config.Storage.Driver = StorageDriverLocal
	config.Storage.Path = "uploads"
	config.Storage.AllowedExtensions = []string{"pdf", "doc", "docx"}
	config.Storage.MaxUploadSize = 16 << 20
	config.Storage.Minio.Bucket = "resumes"

	config.Logging.Level = "info"
	config.Logging.Format = "text"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// normalize lower-cases enumerations and strips leading dots from extensions
func normalize(config *Config) {
	config.Server.Mode = strings.ToLower(strings.TrimSpace(config.Server.Mode))
	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	config.Storage.Driver = strings.ToLower(strings.TrimSpace(config.Storage.Driver))

	exts := make([]string, 0, len(config.Storage.AllowedExtensions))
	for _, ext := range config.Storage.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	config.Storage.AllowedExtensions = exts
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Database.Driver {
	case DatabaseDriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database conn_max_lifetime: %w", err)
		}
	case DatabaseDriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	switch config.Storage.Driver {
	case StorageDriverLocal:
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required")
		}
	case StorageDriverMinio:
		if config.Storage.Minio.Endpoint == "" {
			return fmt.Errorf("minio endpoint is required")
		}
		if config.Storage.Minio.Bucket == "" {
			return fmt.Errorf("minio bucket is required")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", config.Storage.Driver)
	}

	if len(config.Storage.AllowedExtensions) == 0 {
		return fmt.Errorf("at least one allowed extension is required")
	}

	if config.Storage.MaxUploadSize < 0 {
		return fmt.Errorf("max upload size cannot be negative")
	}

	return nil
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production"
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
