package config

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:"127.0.0.1:5173"`
}

type Backend struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

type Identity struct {
	BaseURL string        `yaml:"base_url" env:"IDENTITY_BASE_URL" env-default:"https://identitytoolkit.googleapis.com"`
	APIKey  string        `yaml:"api_key" env:"IDENTITY_API_KEY" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env:"IDENTITY_TIMEOUT" env-default:"10s"`
}

type GoogleOAuth struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"GOOGLE_REDIRECT_URL" env-default:"http://127.0.0.1:5173/auth/google/callback"`
}

type Admin struct {
	SessionTTL time.Duration `yaml:"session_ttl" env:"ADMIN_SESSION_TTL" env-default:"1h"`
	TokenKey   string        `yaml:"token_key" env:"ADMIN_TOKEN_KEY" env-default:"token"`
}

type Cart struct {
	Persist   bool   `yaml:"persist" env:"CART_PERSIST" env-default:"false"`
	KeyPrefix string `yaml:"key_prefix" env:"CART_KEY_PREFIX" env-default:"cart"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Username string `yaml:"username" env:"REDIS_USER"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// GetDSN renders the connection as a redis:// URL.
func (r *Redis) GetDSN() string {
	u := url.URL{Scheme: "redis", Host: r.Addr, Path: "/" + strconv.Itoa(r.DB)}

	if r.Username != "" || r.Password != "" {
		u.User = url.UserPassword(r.Username, r.Password)
	}

	return u.String()
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	Redis  Redis  `yaml:"redis"`
}

type LoginThrottle struct {
	Rate  float64 `yaml:"rate" env:"LOGIN_THROTTLE_RATE" env-default:"0.2"`
	Burst int     `yaml:"burst" env:"LOGIN_THROTTLE_BURST" env-default:"5"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"bookstore-storefront"`
}

type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel      string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTPServer    `yaml:"http_server"`
	Backend       Backend       `yaml:"backend"`
	Identity      Identity      `yaml:"identity"`
	GoogleOAuth   GoogleOAuth   `yaml:"google_oauth"`
	Admin         Admin         `yaml:"admin"`
	Cart          Cart          `yaml:"cart"`
	Storage       Storage       `yaml:"storage"`
	LoginThrottle LoginThrottle `yaml:"login_throttle"`
	Telemetry     Telemetry     `yaml:"telemetry"`
}

// Load reads the YAML file at configPath, applies env overrides and checks
// the result.
func Load(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {

	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the storefront config file")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}

	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg

}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	if c.Admin.SessionTTL <= 0 {
		return fmt.Errorf("admin session_ttl must be positive, got %s", c.Admin.SessionTTL)
	}

	if c.LoginThrottle.Rate <= 0 || c.LoginThrottle.Burst < 1 {
		return fmt.Errorf("login_throttle needs a positive rate and burst")
	}

	return nil
}

// SlogLevel maps the configured level name onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
