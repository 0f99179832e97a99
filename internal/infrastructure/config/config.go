package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Tracker TrackerConfig
	Google  GoogleConfig

	// StrictUIDCheck makes a uid consistency failure abort the auth flow
	// instead of only logging a warning.
	StrictUIDCheck bool `env:"STRICT_UID_CHECK, default=false"`
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8080"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type StorageConfig struct {
	// Dir holds the encrypted session file and its key. Defaults to a dotdir
	// relative to the working directory; deployments should point it at the
	// platform's app-data location.
	Dir string `env:"STORAGE_DIR, default=.talentlink"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type TrackerConfig struct {
	Interval      time.Duration `env:"TRACKER_INTERVAL,       default=10s"`
	MinMoveMeters float64       `env:"TRACKER_MIN_MOVE_M,     default=5"`
	FeedTTL       time.Duration `env:"TRACKER_FEED_TTL,       default=5m"`
	FixPath       string        `env:"TRACKER_FIX_PATH,       default=.talentlink/fix.json"`
	Allowed       bool          `env:"TRACKER_BG_ALLOWED,     default=false"`
	Port          string        `env:"TRACKER_PORT,           default=8090"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL, default=http://localhost:8899/callback"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
