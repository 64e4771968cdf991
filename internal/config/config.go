// internal/config/config.go
package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	Ozon        OzonConfig
	Wildberries WildberriesConfig
	Telegram    TelegramConfig
	Finance     FinanceConfig
	Ingest      IngestConfig
	Archive     ArchiveConfig
	LogLevel    string
}

type ServerConfig struct {
	Port           string
	Mode           string
	TriggerPort    string
	TriggerToken   string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns URL when set, otherwise a key/value connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.DBName + " sslmode=" + c.SSLMode
}

// CacheConfig selects the report cache backend: memory, redis or none.
type CacheConfig struct {
	Backend       string
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
	LockEnabled   bool
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type OzonConfig struct {
	Enabled  bool
	ClientID string
	APIKey   string
	BaseURL  string
	ChatID   string
}

type WildberriesConfig struct {
	Enabled      bool
	Token        string
	StatsBaseURL string
	ChatID       string
}

type TelegramConfig struct {
	Token   string
	BaseURL string
}

type FinanceConfig struct {
	LossMarginThreshold float64
	LowMarginThreshold  float64
	LowStockFloor       int
	StaleDays           int
	TopN                int
	ForecastWindowDays  int
	CriticalDays        float64
	WarningDays         float64
}

// Thresholds converts the finance section into the analysis thresholds.
func (c FinanceConfig) Thresholds() domain.Thresholds {
	th := domain.DefaultThresholds()
	th.LossMargin = c.LossMarginThreshold
	th.LowMargin = c.LowMarginThreshold
	if c.LowStockFloor > 0 {
		th.LowStockFloor = c.LowStockFloor
	}
	if c.StaleDays > 0 {
		th.StaleAfter = time.Duration(c.StaleDays) * 24 * time.Hour
	}
	if c.TopN > 0 {
		th.TopN = c.TopN
	}
	if c.ForecastWindowDays > 0 {
		th.ForecastWindowDays = c.ForecastWindowDays
	}
	if c.CriticalDays > 0 {
		th.CriticalDays = c.CriticalDays
	}
	if c.WarningDays > 0 {
		th.WarningDays = c.WarningDays
	}
	return th
}

type IngestConfig struct {
	TimeoutSeconds      int
	MaxPages            int
	Retries             int
	RetryBackoffSeconds int
	PagesPerSecond      float64
}

func (c IngestConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ArchiveConfig struct {
	S3    S3Config
	Drive DriveConfig
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

type DriveConfig struct {
	Enabled         bool
	CredentialsFile string
	FolderPath      string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults(viper.GetViper())

		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if file := viper.GetString("CONFIG_FILE"); file != "" {
			viper.SetConfigFile(file)
			if err := viper.ReadInConfig(); err != nil {
				log.Fatalf("Failed to read config file %s: %v", file, err)
			}
		}

		instance = fromViper(viper.GetViper())
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_TRIGGER_PORT", "8081")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 120)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sellerpulse")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 600)
	v.SetDefault("CACHE_LOCK_ENABLED", false)

	v.SetDefault("OZON_ENABLED", true)
	v.SetDefault("OZON_BASE_URL", "https://api-seller.ozon.ru")
	v.SetDefault("WB_ENABLED", true)
	v.SetDefault("WB_STATS_BASE_URL", "https://statistics-api.wildberries.ru")
	v.SetDefault("TELEGRAM_BASE_URL", "https://api.telegram.org")

	v.SetDefault("FINANCE_LOSS_MARGIN_THRESHOLD", 0.0)
	v.SetDefault("FINANCE_LOW_MARGIN_THRESHOLD", 20.0)
	v.SetDefault("FINANCE_LOW_STOCK_FLOOR", 5)
	v.SetDefault("FINANCE_STALE_DAYS", 30)
	v.SetDefault("FINANCE_TOP_N", 5)
	v.SetDefault("FINANCE_FORECAST_WINDOW_DAYS", 30)
	v.SetDefault("FINANCE_CRITICAL_DAYS", 7.0)
	v.SetDefault("FINANCE_WARNING_DAYS", 14.0)

	v.SetDefault("INGEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("INGEST_MAX_PAGES", 500)
	v.SetDefault("INGEST_RETRIES", 2)
	v.SetDefault("INGEST_RETRY_BACKOFF_SECONDS", 2)
	v.SetDefault("INGEST_PAGES_PER_SECOND", 1.0)

	v.SetDefault("ARCHIVE_S3_ENABLED", false)
	v.SetDefault("ARCHIVE_S3_REGION", "us-east-1")
	v.SetDefault("ARCHIVE_S3_USE_SSL", true)
	v.SetDefault("ARCHIVE_S3_PREFIX", "digests")
	v.SetDefault("ARCHIVE_DRIVE_ENABLED", false)
	v.SetDefault("ARCHIVE_DRIVE_FOLDER_PATH", "sellerpulse/digests")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			TriggerPort:    v.GetString("SERVER_TRIGGER_PORT"),
			TriggerToken:   v.GetString("SERVER_TRIGGER_TOKEN"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:  v.GetBool("DB_ENABLED"),
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(v.GetString("CACHE_BACKEND")),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			TTLSeconds:    v.GetInt("CACHE_TTL_SECONDS"),
			LockEnabled:   v.GetBool("CACHE_LOCK_ENABLED"),
		},
		Ozon: OzonConfig{
			Enabled:  v.GetBool("OZON_ENABLED"),
			ClientID: v.GetString("OZON_CLIENT_ID"),
			APIKey:   v.GetString("OZON_API_KEY"),
			BaseURL:  v.GetString("OZON_BASE_URL"),
			ChatID:   v.GetString("OZON_CHAT_ID"),
		},
		Wildberries: WildberriesConfig{
			Enabled:      v.GetBool("WB_ENABLED"),
			Token:        v.GetString("WB_TOKEN"),
			StatsBaseURL: v.GetString("WB_STATS_BASE_URL"),
			ChatID:       v.GetString("WB_CHAT_ID"),
		},
		Telegram: TelegramConfig{
			Token:   v.GetString("TELEGRAM_BOT_TOKEN"),
			BaseURL: v.GetString("TELEGRAM_BASE_URL"),
		},
		Finance: FinanceConfig{
			LossMarginThreshold: v.GetFloat64("FINANCE_LOSS_MARGIN_THRESHOLD"),
			LowMarginThreshold:  v.GetFloat64("FINANCE_LOW_MARGIN_THRESHOLD"),
			LowStockFloor:       v.GetInt("FINANCE_LOW_STOCK_FLOOR"),
			StaleDays:           v.GetInt("FINANCE_STALE_DAYS"),
			TopN:                v.GetInt("FINANCE_TOP_N"),
			ForecastWindowDays:  v.GetInt("FINANCE_FORECAST_WINDOW_DAYS"),
			CriticalDays:        v.GetFloat64("FINANCE_CRITICAL_DAYS"),
			WarningDays:         v.GetFloat64("FINANCE_WARNING_DAYS"),
		},
		Ingest: IngestConfig{
			TimeoutSeconds:      v.GetInt("INGEST_TIMEOUT_SECONDS"),
			MaxPages:            v.GetInt("INGEST_MAX_PAGES"),
			Retries:             v.GetInt("INGEST_RETRIES"),
			RetryBackoffSeconds: v.GetInt("INGEST_RETRY_BACKOFF_SECONDS"),
			PagesPerSecond:      v.GetFloat64("INGEST_PAGES_PER_SECOND"),
		},
		Archive: ArchiveConfig{
			S3: S3Config{
				Enabled:   v.GetBool("ARCHIVE_S3_ENABLED"),
				Endpoint:  v.GetString("ARCHIVE_S3_ENDPOINT"),
				AccessKey: v.GetString("ARCHIVE_S3_ACCESS_KEY"),
				SecretKey: v.GetString("ARCHIVE_S3_SECRET_KEY"),
				Bucket:    v.GetString("ARCHIVE_S3_BUCKET"),
				Region:    v.GetString("ARCHIVE_S3_REGION"),
				UseSSL:    v.GetBool("ARCHIVE_S3_USE_SSL"),
				Prefix:    v.GetString("ARCHIVE_S3_PREFIX"),
			},
			Drive: DriveConfig{
				Enabled:         v.GetBool("ARCHIVE_DRIVE_ENABLED"),
				CredentialsFile: v.GetString("ARCHIVE_DRIVE_CREDENTIALS_FILE"),
				FolderPath:      v.GetString("ARCHIVE_DRIVE_FOLDER_PATH"),
			},
		},
	}
}
