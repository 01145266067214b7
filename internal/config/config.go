// Load envs from .env
// Load YAML config
// Apply env overrides and the keyring fallback
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-linkedin-scraper/internal/secrets"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Browser  BrowserConfig  `yaml:"browser"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Server   ServerConfig   `yaml:"server"`
	Telegram TelegramConfig `yaml:"telegram"`
	//Paths
	LogDir string `yaml:"log_dir"`
}

type LinkedInConfig struct {
	Email string `yaml:"email" env:"LINKEDIN_EMAIL"`
	// never read from yaml
	Password string `yaml:"-" env:"LINKEDIN_PASSWORD"`
}

type BrowserConfig struct {
	Headless    bool   `yaml:"headless"`
	BlockImages bool   `yaml:"block_images"`
	PageLoad    string `yaml:"page_load"`
	UserAgent   string `yaml:"user_agent"`
	BinaryPath  string `yaml:"binary_path" env:"CHROME_BIN"`
	DriverPath  string `yaml:"driver_path" env:"PLAYWRIGHT_DRIVER_PATH"`
	// ProfileRoot holds the per-session profile directories; empty means the OS temp dir.
	ProfileRoot   string `yaml:"profile_root"`
	CookiesPath   string `yaml:"cookies_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type TimeoutConfig struct {
	PageLoad  time.Duration `yaml:"page_load"`
	LoginForm time.Duration `yaml:"login_form"`
	PostLogin time.Duration `yaml:"post_login"`
	Results   time.Duration `yaml:"results"`
	Detail    time.Duration `yaml:"detail"`
	Settle    time.Duration `yaml:"settle"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
	// RequestTimeout caps one whole scrape invocation.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      float64       `yaml:"rate_limit"`
	RateBurst      int           `yaml:"rate_burst"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether results should be forwarded to Telegram.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:    true,
			BlockImages: true,
			PageLoad:    "domcontentloaded",
		},
		Timeouts: TimeoutConfig{
			PageLoad:  45 * time.Second,
			LoginForm: 15 * time.Second,
			PostLogin: 20 * time.Second,
			Results:   10 * time.Second,
			Detail:    10 * time.Second,
			Settle:    2 * time.Second,
		},
		Server: ServerConfig{
			Port:           "8080",
			RequestTimeout: 3 * time.Minute,
			RateLimit:      0.5,
			RateBurst:      2,
		},
		LogDir: "logs",
	}
}

// Load reads .env, then the yaml file at path (SCRAPER_CONFIG or DefaultPath
// when empty), then the environment. A missing yaml file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("SCRAPER_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("⚠️ No config file at %s, using defaults and environment", path)
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.LinkedIn.Password == "" {
		password, err := secrets.LookupPassword(cfg.LinkedIn.Email)
		if err != nil {
			log.Printf("⚠️ Keyring unavailable: %v", err)
		}
		cfg.LinkedIn.Password = password
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		"LINKEDIN_EMAIL":         &c.LinkedIn.Email,
		"LINKEDIN_PASSWORD":      &c.LinkedIn.Password,
		"CHROME_BIN":             &c.Browser.BinaryPath,
		"PLAYWRIGHT_DRIVER_PATH": &c.Browser.DriverPath,
		"PORT":                   &c.Server.Port,
		"TELEGRAM_BOT_TOKEN":     &c.Telegram.Token,
	}
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.LinkedIn.Email == "" {
		errs = append(errs, errors.New("LINKEDIN_EMAIL is required"))
	}
	if c.LinkedIn.Password == "" {
		errs = append(errs, errors.New("LINKEDIN_PASSWORD is required (or store it in the keyring)"))
	}
	switch c.Browser.PageLoad {
	case "", "commit", "domcontentloaded", "load":
	default:
		errs = append(errs, fmt.Errorf("browser.page_load %q must be commit, domcontentloaded or load", c.Browser.PageLoad))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_burst must not be negative"))
	}
	if (c.Telegram.Token == "") != (c.Telegram.ChatID == 0) {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together"))
	}
	return errors.Join(errs...)
}
