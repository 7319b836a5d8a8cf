// Package config loads process configuration from the environment using
// envconfig, following the env surface named in the external interfaces
// contract: POSTGRES_*, RABBITMQ_*, S3_*/MINIO_*, plus worker/server
// tuning knobs.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration. Each cmd/*/main.go loads one
// of these and wires only the sub-configs it needs; unused sub-configs
// cost nothing beyond a few unread env lookups.
type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Database DatabaseConfig
	S3       S3Config
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Debug    bool `envconfig:"DEBUG_MODE" default:"false"`
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

// WorkerConfig tunes the Transcoder Worker. VideoPostprocessWorkers and
// ChannelActionsServiceWorkers are process-replica counts read by the
// orchestrator that launches this binary (compose/k8s replica counts),
// not an in-process goroutine pool: this system scales horizontally by
// process, one job in flight per channel consumer.
type WorkerConfig struct {
	TempDir                      string        `envconfig:"WORKER_TEMP_DIR" default:"/tmp/gostream"`
	ShutdownTimeout              time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
	VideoPostprocessWorkers      int           `envconfig:"VIDEO_POSTPROCESS_WORKERS" default:"1"`
	ChannelActionsServiceWorkers int           `envconfig:"CHANNEL_ACTIONS_SERVICE_WORKERS" default:"1"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"gostream"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"gostream"`
	DBName   string `envconfig:"POSTGRES_DB" default:"gostream"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// S3Config configures the object-store client. The MinIO fields name the
// local/dev S3-compatible endpoint every service in the stack points at.
type S3Config struct {
	Bucket         string `envconfig:"S3_BUCKET" default:"files"`
	Region         string `envconfig:"S3_REGION" default:"us-east-1"`
	MinIOServerURL string `envconfig:"MINIO_SERVER_URL" default:"http://localhost:9000"`
	MinIORootUser  string `envconfig:"MINIO_ROOT_USER" default:"minioadmin"`
	MinIORootPass  string `envconfig:"MINIO_ROOT_PASSWORD" default:"minioadmin"`
	UseSSL         bool   `envconfig:"S3_USE_SSL" default:"false"`
}

type RabbitMQConfig struct {
	User string `envconfig:"RABBITMQ_DEFAULT_USER" default:"guest"`
	Pass string `envconfig:"RABBITMQ_DEFAULT_PASS" default:"guest"`
	Host string `envconfig:"RABBITMQ_HOST" default:"rabbitmq"`
	Port int    `envconfig:"RABBITMQ_PORT" default:"5672"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Pass, c.Host, c.Port)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig configures the auth collaborator's RS256 JWT issuance. The
// private/public key material is PEM text so it can be mounted from a
// secret rather than a file path.
type AuthConfig struct {
	PrivateKeyPEM   string        `envconfig:"JWT_PRIVATE_KEY" default:""`
	PublicKeyPEM    string        `envconfig:"JWT_PUBLIC_KEY" default:""`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_EXPIRE" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_EXPIRE" default:"168h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
