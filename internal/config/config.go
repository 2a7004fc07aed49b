package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
)

// Identity providers and token modes
const (
	AuthProviderLocal    = "local"
	AuthProviderSupabase = "supabase"

	TokenModePresence = "presence"
	TokenModeJWT      = "jwt"
)

// AI providers
const (
	AIProviderStatic = "static"
	AIProviderGemini = "gemini"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string   `yaml:"port" env:"SERVER_PORT"`
		Mode        string   `yaml:"mode" env:"SERVER_MODE"`
		BasePath    string   `yaml:"base_path" env:"SERVER_BASE_PATH"`
		CORSOrigins []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Store struct {
		Driver    string `yaml:"driver" env:"STORE_DRIVER"`
		KeyPrefix string `yaml:"key_prefix" env:"STORE_KEY_PREFIX"`
	} `yaml:"store"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	DynamoDB struct {
		Table    string `yaml:"table" env:"DYNAMODB_TABLE"`
		Region   string `yaml:"region" env:"AWS_REGION"`
		Endpoint string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT"`
	} `yaml:"dynamodb"`

	Auth struct {
		Provider               string `yaml:"provider" env:"AUTH_PROVIDER"`
		TokenMode              string `yaml:"token_mode" env:"AUTH_TOKEN_MODE"`
		SupabaseURL            string `yaml:"supabase_url" env:"SUPABASE_URL"`
		SupabaseServiceRoleKey string `yaml:"supabase_service_role_key" env:"SUPABASE_SERVICE_ROLE_KEY"`
	} `yaml:"auth"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	AI struct {
		Provider     string `yaml:"provider" env:"AI_PROVIDER"`
		APIKey       string `yaml:"api_key" env:"GEMINI_API_KEY"`
		Model        string `yaml:"model" env:"AI_MODEL"`
		SystemPrompt string `yaml:"system_prompt" env:"AI_SYSTEM_PROMPT"`
	} `yaml:"ai"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Crisis struct {
		SearchDays  int    `yaml:"search_days" env:"CRISIS_SEARCH_DAYS"`
		AlertEmail  string `yaml:"alert_email" env:"CRISIS_ALERT_EMAIL"`
		ChatSource  string `yaml:"chat_source" env:"CRISIS_CHAT_SOURCE"`
		ForumSource string `yaml:"forum_source" env:"CRISIS_FORUM_SOURCE"`
	} `yaml:"crisis"`

	Metrics struct {
		Enabled   bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path      string `yaml:"path" env:"METRICS_PATH"`
		Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`
	} `yaml:"metrics"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
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

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BasePath = "/api/v1"
	config.Server.CORSOrigins = []string{"*"}

	config.Store.Driver = StoreMemory

	config.Redis.Addr = "localhost:6379"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "mindcare"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.DynamoDB.Table = "mindcare-kv"
	config.DynamoDB.Region = "us-east-1"

	config.Auth.Provider = AuthProviderLocal
	config.Auth.TokenMode = TokenModePresence

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "mindcare.app"

	config.AI.Provider = AIProviderStatic
	config.AI.Model = "gemini-1.5-flash"

	config.SMTP.Port = 587
	config.SMTP.FromName = "MindCare Alerts"

	config.Crisis.SearchDays = 7
	config.Crisis.ChatSource = "AI chat"
	config.Crisis.ForumSource = "peer forum"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
	config.Metrics.Namespace = "mindcare"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case StoreMemory:
	case StoreRedis:
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis store")
		}
	case StorePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres store")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime: %w", err)
		}
	case StoreDynamoDB:
		if config.DynamoDB.Table == "" {
			return fmt.Errorf("dynamodb table is required for the dynamodb store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	switch config.Auth.Provider {
	case AuthProviderLocal, AuthProviderSupabase:
	default:
		return fmt.Errorf("unknown auth provider %q", config.Auth.Provider)
	}

	switch config.Auth.TokenMode {
	case TokenModePresence, TokenModeJWT:
	default:
		return fmt.Errorf("unknown token mode %q", config.Auth.TokenMode)
	}

	switch config.AI.Provider {
	case AIProviderStatic, AIProviderGemini:
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Crisis.SearchDays < 1 {
		return fmt.Errorf("crisis search window must be at least one day")
	}

	return nil
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

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
