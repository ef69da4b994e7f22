package config

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"1m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

type Security struct {
	JWTKey         string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	JWTExpiryHours int    `yaml:"JWT_EXPIRY_HOURS" env:"JWT_EXPIRY_HOURS" env-default:"24"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"10m"`
	Namespace  string        `yaml:"namespace" env:"CACHE_NAMESPACE" env-default:"storefront"`
}

// Storage configures the object store used for profile photos.
type Storage struct {
	PublicBaseURL  string        `yaml:"PUBLIC_BASE_URL" env:"STORAGE_PUBLIC_BASE_URL" env-default:"http://localhost:8080"`
	UploadTimeout  time.Duration `yaml:"UPLOAD_TIMEOUT" env:"STORAGE_UPLOAD_TIMEOUT" env-default:"20s"`
	MaxPhotoBytes  int64         `yaml:"MAX_PHOTO_BYTES" env:"STORAGE_MAX_PHOTO_BYTES" env-default:"5242880"`
	ProfileImgPath string        `yaml:"PROFILE_IMAGE_PATH" env:"STORAGE_PROFILE_IMAGE_PATH" env-default:"profileImages"`
}

type Geocoding struct {
	BaseURL   string        `yaml:"BASE_URL" env:"GEOCODING_BASE_URL" env-default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `yaml:"USER_AGENT" env:"GEOCODING_USER_AGENT" env-default:"storefront/1.0"`
	Timeout   time.Duration `yaml:"TIMEOUT" env:"GEOCODING_TIMEOUT" env-default:"15s"`
}

// Sync configures the write-through queue.
type Sync struct {
	Workers      int           `yaml:"WORKERS" env:"SYNC_WORKERS" env-default:"4"`
	QueueSize    int           `yaml:"QUEUE_SIZE" env:"SYNC_QUEUE_SIZE" env-default:"256"`
	WriteTimeout time.Duration `yaml:"WRITE_TIMEOUT" env:"SYNC_WRITE_TIMEOUT" env-default:"10s"`
}

type Kafka struct {
	Brokers    []string `yaml:"BROKERS" env:"KAFKA_BROKERS" env-separator:","`
	OrderTopic string   `yaml:"ORDER_TOPIC" env:"KAFKA_ORDER_TOPIC" env-default:"orders.placed"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@example.com"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Storefront"`
	BaseURL   string `yaml:"BASE_URL" env:"SENDGRID_BASE_URL" env-default:"https://api.sendgrid.com"`
	// SandboxMode validates mail without delivering it.
	SandboxMode bool `yaml:"SANDBOX_MODE" env:"SENDGRID_SANDBOX_MODE" env-default:"false"`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

// Session bounds how long an untouched guest session keeps its cart.
type Session struct {
	IdleTTL       time.Duration `yaml:"IDLE_TTL" env:"SESSION_IDLE_TTL" env-default:"2h"`
	SweepInterval time.Duration `yaml:"SWEEP_INTERVAL" env:"SESSION_SWEEP_INTERVAL" env-default:"5m"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Security     Security     `yaml:"security"`
	Cache        CacheConfig  `yaml:"cache"`
	Storage      Storage      `yaml:"storage"`
	Geocoding    Geocoding    `yaml:"geocoding"`
	Sync         Sync         `yaml:"sync"`
	Kafka        Kafka        `yaml:"kafka"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Otel         Otel         `yaml:"otel"`
	Session      Session      `yaml:"session"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = "config/local.yaml"
		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return &cfg, nil
}

func (d *Database) GetDSN() string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}

	return u.String()
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s", r.Username, r.Password, net.JoinHostPort(r.Host, r.Port))
}

func (s *Security) TokenTTL() time.Duration {
	return time.Duration(s.JWTExpiryHours) * time.Hour
}
