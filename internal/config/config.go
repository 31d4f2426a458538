package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	Mode           string        `mapstructure:"mode"` // debug|release|test
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	BaseURL        string        `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql|postgres|sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"` // empty disables the settings cache
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	SettingsTTL time.Duration `mapstructure:"settings_ttl"`
}

type MQConfig struct {
	URL             string `mapstructure:"url"` // empty disables event publishing
	Exchange        string `mapstructure:"exchange"`
	ChannelPoolSize int    `mapstructure:"channel_pool_size"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type PaymentsConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type SchedulerConfig struct {
	Timezone       string        `mapstructure:"timezone"`
	LockAt         string        `mapstructure:"lock_at"` // HH:MM local time
	JobStaleAfter  time.Duration `mapstructure:"job_stale_after"`
	ExportPicklist bool          `mapstructure:"export_picklist"`
}

type WorkerConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	SendTimeout  time.Duration `mapstructure:"send_timeout"`
	EmailEnabled bool          `mapstructure:"email_enabled"`
}

type PushConfig struct {
	FCMEndpoint  string `mapstructure:"fcm_endpoint"`
	FCMServerKey string `mapstructure:"fcm_server_key"`
}

type SMTPConfig struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Pass          string `mapstructure:"pass"`
	TLSMode       string `mapstructure:"tls_mode"` // none|starttls|tls
	SkipVerifyTLS bool   `mapstructure:"skip_verify_tls"`
	FromAddr      string `mapstructure:"from_addr"`
	FromName      string `mapstructure:"from_name"`
}

type StorageConfig struct {
	Driver          string `mapstructure:"driver"` // local|s3
	LocalDir        string `mapstructure:"local_dir"`
	LocalURLPrefix  string `mapstructure:"local_url_prefix"`
	S3Region        string `mapstructure:"s3_region"`
	S3Bucket        string `mapstructure:"s3_bucket"`
	S3Prefix        string `mapstructure:"s3_prefix"`
	S3PublicBaseURL string `mapstructure:"s3_public_base_url"`
}

type RateLimitConfig struct {
	CheckoutRPS   float64 `mapstructure:"checkout_rps"`
	CheckoutBurst int     `mapstructure:"checkout_burst"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json|text
	Output     string `mapstructure:"output"` // stdout|file
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MQ        MQConfig        `mapstructure:"mq"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Payments  PaymentsConfig  `mapstructure:"payments"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Push      PushConfig      `mapstructure:"push"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

const envPrefix = "FRESHVEG"

// Load reads .env (if present), then the optional YAML file at path, then
// FRESHVEG_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	// .env is optional; production uses real env vars
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.settings_ttl", time.Minute)

	v.SetDefault("mq.url", "")
	v.SetDefault("mq.exchange", "freshveg.events")
	v.SetDefault("mq.channel_pool_size", 4)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("payments.webhook_secret", "")

	v.SetDefault("scheduler.timezone", "Asia/Kolkata")
	v.SetDefault("scheduler.lock_at", "21:00")
	v.SetDefault("scheduler.job_stale_after", 30*time.Minute)
	v.SetDefault("scheduler.export_picklist", false)

	v.SetDefault("worker.interval", time.Minute)
	v.SetDefault("worker.batch_size", 50)
	v.SetDefault("worker.send_timeout", 10*time.Second)
	v.SetDefault("worker.email_enabled", false)

	v.SetDefault("push.fcm_endpoint", "https://fcm.googleapis.com/fcm/send")
	v.SetDefault("push.fcm_server_key", "")

	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", "1025")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.tls_mode", "none")
	v.SetDefault("smtp.skip_verify_tls", false)
	v.SetDefault("smtp.from_addr", "no-reply@freshveg.local")
	v.SetDefault("smtp.from_name", "FreshVeg")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "./storage/exports")
	v.SetDefault("storage.local_url_prefix", "/exports")
	v.SetDefault("storage.s3_region", "")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_prefix", "exports")
	v.SetDefault("storage.s3_public_base_url", "")

	v.SetDefault("rate_limit.checkout_rps", 2.0)
	v.SetDefault("rate_limit.checkout_burst", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "./logs/freshveg.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 14)
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("config: database.dsn is required (FRESHVEG_DATABASE_DSN)")
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.Database.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, _, err := c.LockClock(); err != nil {
		return err
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 50
	}
	return nil
}

// Location resolves the service timezone used for delivery dates.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid scheduler.timezone %q: %w", c.Scheduler.Timezone, err)
	}
	return loc, nil
}

// LockClock parses scheduler.lock_at ("HH:MM").
func (c *Config) LockClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.Scheduler.LockAt)
	if err != nil {
		return 0, 0, fmt.Errorf("config: invalid scheduler.lock_at %q", c.Scheduler.LockAt)
	}
	return t.Hour(), t.Minute(), nil
}
