package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type StatusServer struct {
	Addr string `yaml:"address" env:"STATUS_ADDR" env-default:"localhost:9090"`
}

type CommerceAPI struct {
	BaseURL        string        `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
	TerminalOrigin string        `yaml:"terminal_origin" env:"API_TERMINAL_ORIGIN" env-default:"WP"`
	Timeout        time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"0"`
	ClientVersion  string        `yaml:"client_version" env:"API_CLIENT_VERSION" env-default:""`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost:6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Checkout struct {
	CaptchaRequired bool `yaml:"captcha_required" env:"CHECKOUT_CAPTCHA_REQUIRED" env-default:"false"`
	AllowGuest      bool `yaml:"allow_guest" env:"CHECKOUT_ALLOW_GUEST" env-default:"true"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT" env-default:""`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"development"`
	StatusServer `yaml:"status_server"`
	CommerceAPI  CommerceAPI  `yaml:"commerce_api"`
	RedisConnect RedisConnect `yaml:"redis"`
	Checkout     Checkout     `yaml:"checkout"`
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

// APIBase returns the configured base URL without a trailing slash, so request
// paths can always be joined with a single "/".
func (c *CommerceAPI) APIBase() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func (r *RedisConnect) GetDSN() string {
	if r.Username != "" || r.Password != "" {
		return fmt.Sprintf("redis://%s:%s@%s/%d", r.Username, r.Password, r.Host, r.DB)
	}

	return fmt.Sprintf("redis://%s/%d", r.Host, r.DB)
}
