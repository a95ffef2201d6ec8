package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
}

type Database struct {
	Host     string `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password string `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name     string `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode  string `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`

	MaxOpenConns    int           `yaml:"PG_MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"PG_MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"PG_CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"PG_CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost:6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Security struct {
	JWTKey string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
}

// Pricing carries the business rules the aggregator must not hard-code:
// the flat per-distinct-category service charge and its waiver thresholds.
type Pricing struct {
	ServiceChargePerCategory float64 `yaml:"SERVICE_CHARGE_PER_CATEGORY" env:"SERVICE_CHARGE_PER_CATEGORY" env-default:"49"`
	ServiceChargeWaiveBelow  float64 `yaml:"SERVICE_CHARGE_WAIVE_BELOW" env:"SERVICE_CHARGE_WAIVE_BELOW" env-default:"0"`
	FreeServiceSubtotal      float64 `yaml:"FREE_SERVICE_SUBTOTAL" env:"FREE_SERVICE_SUBTOTAL" env-default:"0"`
}

type Resolver struct {
	// BaseURL of the external config service. Empty means resolve against
	// the local catalog store.
	BaseURL        string        `yaml:"RESOLVER_BASE_URL" env:"RESOLVER_BASE_URL" env-default:""`
	Timeout        time.Duration `yaml:"RESOLVER_TIMEOUT" env:"RESOLVER_TIMEOUT" env-default:"3s"`
	MaxConcurrency int           `yaml:"RESOLVER_MAX_CONCURRENCY" env:"RESOLVER_MAX_CONCURRENCY" env-default:"5"`
}

type Checkout struct {
	SubmitTimeout time.Duration `yaml:"CHECKOUT_SUBMIT_TIMEOUT" env:"CHECKOUT_SUBMIT_TIMEOUT" env-default:"15s"`
}

type CacheConfig struct {
	CouponTTL     time.Duration `yaml:"CACHE_COUPON_TTL" env:"CACHE_COUPON_TTL" env-default:"5m"`
	ResolutionTTL time.Duration `yaml:"CACHE_RESOLUTION_TTL" env:"CACHE_RESOLUTION_TTL" env-default:"1h"`
}

type SendGrid struct {
	APIKey    string `yaml:"SENDGRID_API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"SENDGRID_FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"bookings@servease.example"`
	FromName  string `yaml:"SENDGRID_FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"ServEase Bookings"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"OTLP_ENDPOINT" env:"OTLP_ENDPOINT" env-default:""`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	Security     Security     `yaml:"security"`
	Pricing      Pricing      `yaml:"pricing"`
	Resolver     Resolver     `yaml:"resolver"`
	Checkout     Checkout     `yaml:"checkout"`
	Cache        CacheConfig  `yaml:"cache"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Telemetry    Telemetry    `yaml:"telemetry"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	if r.Password != "" {
		return fmt.Sprintf("redis://%s:%s@%s/%d", r.Username, r.Password, r.Host, r.DB)
	}

	return fmt.Sprintf("redis://%s/%d", r.Host, r.DB)
}
