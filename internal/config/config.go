package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Order    OrderConfig
	Menu     MenuConfig
	Client   ClientConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port               int
	CORSAllowedOrigins []string
	StreamHeartbeat    time.Duration
	ReadTimeout        time.Duration
	ReadHeaderTimeout  time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig selects the status bus. An empty Addr keeps fan-out in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type OrderConfig struct {
	TxTimeout           time.Duration
	MaxRetryAttempts    int
	CreateRatePerMinute int
}

type MenuConfig struct {
	SeedFile string
}

type ClientConfig struct {
	APIBaseURL string
	Timeout    time.Duration
	LogFile    string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 5000)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STREAM_HEARTBEAT", "15s")
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_READ_HEADER_TIMEOUT", "2s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "storefront")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ORDER_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("ORDER_CREATE_RATE_PER_MINUTE", 30)
	v.SetDefault("MENU_SEED_FILE", "configs/menu.yaml")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("CLIENT_TIMEOUT", "10s")
	v.SetDefault("CLIENT_LOG_FILE", "storefront.log")
	v.SetDefault("LOG_LEVEL", "info")

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"DB_CONN_MAX_LIFETIME",
		"STREAM_HEARTBEAT",
		"SERVER_READ_TIMEOUT",
		"SERVER_READ_HEADER_TIMEOUT",
		"SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT",
		"SERVER_SHUTDOWN_TIMEOUT",
		"ORDER_TX_TIMEOUT",
		"CLIENT_TIMEOUT",
	} {
		d, err := parseDuration(v, key)
		if err != nil {
			return nil, err
		}
		durations[key] = d
	}

	maxRetries := v.GetInt("ORDER_MAX_RETRY_ATTEMPTS")
	if maxRetries < 1 {
		return nil, fmt.Errorf("ORDER_MAX_RETRY_ATTEMPTS must be at least 1, got %d", maxRetries)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetInt("SERVER_PORT"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			StreamHeartbeat:    durations["STREAM_HEARTBEAT"],
			ReadTimeout:        durations["SERVER_READ_TIMEOUT"],
			ReadHeaderTimeout:  durations["SERVER_READ_HEADER_TIMEOUT"],
			WriteTimeout:       durations["SERVER_WRITE_TIMEOUT"],
			IdleTimeout:        durations["SERVER_IDLE_TIMEOUT"],
			ShutdownTimeout:    durations["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Order: OrderConfig{
			TxTimeout:           durations["ORDER_TX_TIMEOUT"],
			MaxRetryAttempts:    maxRetries,
			CreateRatePerMinute: v.GetInt("ORDER_CREATE_RATE_PER_MINUTE"),
		},
		Menu: MenuConfig{
			SeedFile: v.GetString("MENU_SEED_FILE"),
		},
		Client: ClientConfig{
			APIBaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout:    durations["CLIENT_TIMEOUT"],
			LogFile:    v.GetString("CLIENT_LOG_FILE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
