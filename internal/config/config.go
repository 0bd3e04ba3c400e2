package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	ReadPolicyOwner         = "owner"
	ReadPolicyAuthenticated = "authenticated"

	AvatarStorageDisk = "disk"
	AvatarStorageS3   = "s3"
)

type Config struct {
	Env            string         `yaml:"env" env:"ENV" env-default:"local"`
	DSN            string         `yaml:"db_host" env:"DB_HOST" env-required:"true"`
	MigrateOnStart bool           `yaml:"migrate_on_start" env:"MIGRATE_ON_START" env-default:"true"`
	JWT            JWTConfig      `yaml:"jwt"`
	Auth           AuthConfig     `yaml:"auth"`
	Contacts       ContactsConfig `yaml:"contacts"`
	Avatars        AvatarsConfig  `yaml:"avatars"`
	HTTPServer     HTTPServer     `yaml:"http_server"`
}

type JWTConfig struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"1h"`
}

type AuthConfig struct {
	MinPasswordLength int `yaml:"min_password_length" env:"MIN_PASSWORD_LENGTH" env-default:"6"`
}

type ContactsConfig struct {
	// ReadPolicy decides who may GET a contact by id: "owner" or any
	// "authenticated" user.
	ReadPolicy string `yaml:"read_policy" env:"CONTACT_READ_POLICY" env-default:"owner"`
}

type AvatarsConfig struct {
	Storage  string   `yaml:"storage" env:"AVATAR_STORAGE" env-default:"disk"`
	Dir      string   `yaml:"dir" env:"AVATAR_DIR" env-default:"public/avatars"`
	TempDir  string   `yaml:"temp_dir" env:"TEMP_DIR" env-default:"temp"`
	MaxBytes int64    `yaml:"max_bytes" env:"AVATAR_MAX_BYTES" env-default:"5242880"`
	S3       S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	PublicURL string `yaml:"public_url" env:"S3_PUBLIC_URL"`
}

type HTTPServer struct {
	Port         int           `yaml:"port" env:"PORT" env-default:"3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Be careful with panics, we use them only in app launching
func MustLoad() *Config {
	cfg, err := Load(fetchConfigPath())
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load reads configPath when given, then the environment, which takes
// precedence over the file.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("%s: config file: %w", op, err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of local, dev, prod, got %q", c.Env))
	}

	if c.JWT.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.MinPasswordLength < 1 {
		errs = append(errs, errors.New("MIN_PASSWORD_LENGTH must be at least 1"))
	}

	switch c.Contacts.ReadPolicy {
	case ReadPolicyOwner, ReadPolicyAuthenticated:
	default:
		errs = append(errs, fmt.Errorf("CONTACT_READ_POLICY must be owner or authenticated, got %q", c.Contacts.ReadPolicy))
	}

	switch c.Avatars.Storage {
	case AvatarStorageDisk:
	case AvatarStorageS3:
		if c.Avatars.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for s3 avatar storage"))
		}
		if c.Avatars.S3.PublicURL == "" {
			errs = append(errs, errors.New("S3_PUBLIC_URL is required for s3 avatar storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("AVATAR_STORAGE must be disk or s3, got %q", c.Avatars.Storage))
	}

	if c.Avatars.MaxBytes <= 0 {
		errs = append(errs, errors.New("AVATAR_MAX_BYTES must be positive"))
	}
	if c.HTTPServer.Port < 1 || c.HTTPServer.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.HTTPServer.Port))
	}

	return errors.Join(errs...)
}

// Fetches config path from command line flag or environment variable
// Priority: flag > env > default (empty string)
func fetchConfigPath() string {
	var res string

	// "--config" is flag name
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
