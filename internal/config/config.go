package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type S3Config struct {
	Bucket          string `env:"BUCKET" envDefault:"bosk-pdf"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT"` // MinIO and other S3 compatible services
	UsePathStyle    bool   `env:"USE_PATH_STYLE" envDefault:"false"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
}

type SupabaseConfig struct {
	URL        string `env:"URL"`
	ServiceKey string `env:"SERVICE_KEY"`
	Bucket     string `env:"BUCKET" envDefault:"forms"`
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Log         struct {
		Level  string `env:"LEVEL" envDefault:"info"`
		Format string `env:"FORMAT" envDefault:"text"` // text | json
	} `envPrefix:"LOG_"`
	Server struct {
		Port            string `env:"PORT" envDefault:"8000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"30"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MaxBodyBytes    int64  `env:"MAX_BODY_BYTES" envDefault:"5242880"` // signatures are inlined as base64
	} `envPrefix:"SERVER_"`
	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	} `envPrefix:"CORS_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
		MigrateOnStart     bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	} `envPrefix:"DATABASE_"`
	Template struct {
		Path         string `env:"PATH" envDefault:"assets/Form.pdf"`
		CheckTimeout int    `env:"CHECK_TIMEOUT" envDefault:"10"`
	} `envPrefix:"TEMPLATE_"`
	Storage struct {
		Driver            string         `env:"DRIVER" envDefault:"s3"` // s3 | supabase
		Prefix            string         `env:"PREFIX" envDefault:"work-hours-forms/"`
		PresignExpiration int            `env:"PRESIGN_EXPIRATION" envDefault:"600"`
		UploadTimeout     int            `env:"UPLOAD_TIMEOUT" envDefault:"30"`
		S3                S3Config       `envPrefix:"S3_"`
		Supabase          SupabaseConfig `envPrefix:"SUPABASE_"`
	} `envPrefix:"STORAGE_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"` // events are not published when empty
		Queue          string `env:"QUEUE" envDefault:"form_events"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST"` // presigned urls are not cached when empty
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Email struct {
		From         string   `env:"FROM"`
		Recipients   []string `env:"RECIPIENTS" envSeparator:","`
		DashboardURL string   `env:"DASHBOARD_URL"`
		SMTP         struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Seed struct {
		Forms int `env:"FORMS" envDefault:"20"`
	} `envPrefix:"SEED_"`
}

// LoadConfig reads the configuration from the environment. Variables from a .env file in the
// working directory are used when present, without overriding the real environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error, the rest are usually caused by it
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
