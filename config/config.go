package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	MediaLocal = "local"
	MediaS3    = "s3"
)

type Config struct {
	Debug   bool   `envconfig:"debug"`
	Port    int    `envconfig:"port" default:"8080"`
	Env     string `envconfig:"env" default:"dev"`
	BaseUrl string `envconfig:"base_url" default:"http://localhost:8080"`

	StorageDriver    string `envconfig:"storage_driver" default:"memory"`
	PostgresHost     string `envconfig:"postgres_host" default:"localhost"`
	PostgresUser     string `envconfig:"postgres_user"`
	PostgresDB       string `envconfig:"postgres_db"`
	PostgresPort     int    `envconfig:"postgres_port" default:"5432"`
	PostgresPassword string `envconfig:"postgres_password"`
	SQLitePath       string `envconfig:"sqlite_path" default:"civilink.db"`
	RedisAddr        string `envconfig:"redis_addr" default:"localhost:6379"`
	RedisPassword    string `envconfig:"redis_password"`
	RedisDB          int    `envconfig:"redis_db"`

	JWTSecret         string        `envconfig:"jwt_secret" default:"civilink-dev-secret"`
	SessionTTL        time.Duration `envconfig:"session_ttl" default:"24h"`
	SignupOTPRequired bool          `envconfig:"signup_otp_required" default:"true"`
	LoginRateLimit    uint          `envconfig:"login_rate_limit" default:"10"`

	MediaDriver        string `envconfig:"media_driver" default:"local"`
	MediaDir           string `envconfig:"media_dir" default:"media"`
	AWSRegion          string `envconfig:"aws_region"`
	AWSAccessKeyID     string `envconfig:"aws_access_key_id"`
	AWSSecretAccessKey string `envconfig:"aws_secret_access_key"`
	AWSBucket          string `envconfig:"aws_bucket"`

	MailgunApiKey string `envconfig:"mg_public_api_key"`
	MgDomain      string `envconfig:"mg_domain"`
	MgEmailFrom   string `envconfig:"email_from" default:"CiviLink <no-reply@civilink.local>"`

	SeedDemo       bool     `envconfig:"seed_demo" default:"true"`
	AllowedOrigins []string `envconfig:"allowed_origins"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("civilink", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// MailEnabled reports whether Mailgun credentials are present.
func (c *Config) MailEnabled() bool {
	return c.MgDomain != "" && c.MailgunApiKey != ""
}
