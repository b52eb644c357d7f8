// Package config loads the application configuration from configs/config.yaml,
// an optional .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
)

// Config is the whole application configuration.
type Config struct {
	App struct {
		Env string `mapstructure:"env"` // "production" switches to JSON logs and gin release mode
	} `mapstructure:"app"`

	Server struct {
		Port    int    `mapstructure:"port"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"server"`

	Database struct {
		Driver string `mapstructure:"driver"` // sqlite, mysql or none
		Name   string `mapstructure:"name"`   // SQLite file name
		DSN    string `mapstructure:"dsn"`    // MySQL DSN
	} `mapstructure:"database"`

	Notifications struct {
		BufferSize  int           `mapstructure:"buffer_size"`
		WorkerCount int           `mapstructure:"worker_count"`
		MaxAttempts int           `mapstructure:"max_attempts"`
		Backoff     time.Duration `mapstructure:"backoff"`
	} `mapstructure:"notifications"`

	Mail struct {
		Host        string `mapstructure:"host"` // empty disables SMTP; messages are only logged
		Port        int    `mapstructure:"port"`
		Username    string `mapstructure:"username"`
		Password    string `mapstructure:"password"`
		From        string `mapstructure:"from"`
		NoReplyFrom string `mapstructure:"no_reply_from"`
		ContactTo   string `mapstructure:"contact_to"`
		OwnerName   string `mapstructure:"owner_name"`
		SiteURL     string `mapstructure:"site_url"`
	} `mapstructure:"mail"`

	RateLimit struct {
		Enabled          bool          `mapstructure:"enabled"`
		GeneralPerWindow int           `mapstructure:"general_per_window"`
		GeneralWindow    time.Duration `mapstructure:"general_window"`
		StrictPerWindow  int           `mapstructure:"strict_per_window"`
		StrictWindow     time.Duration `mapstructure:"strict_window"`
	} `mapstructure:"ratelimit"`

	Monitor struct {
		Enabled  bool   `mapstructure:"enabled"`
		Schedule string `mapstructure:"schedule"` // cron spec or @every descriptor
	} `mapstructure:"monitor"`

	GeoIP struct {
		DatabasePath string `mapstructure:"database_path"`
	} `mapstructure:"geoip"`

	Blog struct {
		DefaultAuthor string `mapstructure:"default_author"`
	} `mapstructure:"blog"`
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.name", "portfolio.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("notifications.buffer_size", 100)
	v.SetDefault("notifications.worker_count", 2)
	v.SetDefault("notifications.max_attempts", 3)
	v.SetDefault("notifications.backoff", "2s")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", `"Portfolio" <no-reply@localhost>`)
	v.SetDefault("mail.no_reply_from", `"Portfolio" <no-reply@localhost>`)
	v.SetDefault("mail.contact_to", "contact@localhost")
	v.SetDefault("mail.owner_name", "Portfolio Owner")
	v.SetDefault("mail.site_url", "http://localhost:3000")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.general_per_window", 100)
	v.SetDefault("ratelimit.general_window", "15m")
	v.SetDefault("ratelimit.strict_per_window", 10)
	v.SetDefault("ratelimit.strict_window", "1h")
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.schedule", "@every 30m")
	v.SetDefault("geoip.database_path", "")
	v.SetDefault("blog.default_author", "Yash Kamboj")
}

// LoadConfig loads .env, then ./configs/config.yaml, with environment
// variables (SERVER_PORT, MAIL_HOST, ...) taking precedence over both.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()
	return Load("./configs")
}

// Load reads config.yaml from the given directories. A missing file is not an
// error; a malformed one is.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, customerrors.ErrConfigLoad{Path: v.ConfigFileUsed(), Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
