package utils

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Conversation ConversationConfig
	WhatsApp     WhatsAppConfig
	Calendar     CalendarConfig
	Classifier   ClassifierConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	SessionExpiryHours int
	LoginPerMinute     int
}

// ConversationConfig tunes the booking dialogue.
type ConversationConfig struct {
	SessionTTL        time.Duration
	MaxSuggestions    int
	HelpOnUnsolicited bool
	BusinessCacheTTL  time.Duration
}

type WhatsAppConfig struct {
	VerifyToken     string
	AppSecret       string
	GraphBaseURL    string
	GraphAPIVersion string
	DialogBaseURL   string
	Timeout         time.Duration
}

type CalendarConfig struct {
	Enabled         bool
	CredentialsFile string
	Timeout         time.Duration
}

type ClassifierConfig struct {
	GeminiAPIKey string
	Model        string
	Timeout      time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "reservation-bot")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("AUTH_SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("AUTH_LOGIN_PER_MINUTE", 10)
	viper.SetDefault("SESSION_TTL", "30m")
	viper.SetDefault("MAX_SUGGESTIONS", 3)
	viper.SetDefault("HELP_ON_UNSOLICITED", false)
	viper.SetDefault("BUSINESS_CACHE_TTL", "5m")
	viper.SetDefault("WHATSAPP_GRAPH_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("WHATSAPP_GRAPH_API_VERSION", "v21.0")
	viper.SetDefault("WHATSAPP_360DIALOG_BASE_URL", "https://waba-v2.360dialog.io")
	viper.SetDefault("WHATSAPP_TIMEOUT", "15s")
	viper.SetDefault("GCAL_ENABLED", false)
	viper.SetDefault("GCAL_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("GCAL_TIMEOUT", "10s")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("GEMINI_TIMEOUT", "12s")

	// .env is optional; the environment always wins
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			SessionExpiryHours: viper.GetInt("AUTH_SESSION_EXPIRY_HOURS"),
			LoginPerMinute:     viper.GetInt("AUTH_LOGIN_PER_MINUTE"),
		},
		Conversation: ConversationConfig{
			SessionTTL:        viper.GetDuration("SESSION_TTL"),
			MaxSuggestions:    viper.GetInt("MAX_SUGGESTIONS"),
			HelpOnUnsolicited: viper.GetBool("HELP_ON_UNSOLICITED"),
			BusinessCacheTTL:  viper.GetDuration("BUSINESS_CACHE_TTL"),
		},
		WhatsApp: WhatsAppConfig{
			VerifyToken:     viper.GetString("VERIFY_TOKEN"),
			GraphBaseURL:    viper.GetString("WHATSAPP_GRAPH_BASE_URL"),
			GraphAPIVersion: viper.GetString("WHATSAPP_GRAPH_API_VERSION"),
			DialogBaseURL:   viper.GetString("WHATSAPP_360DIALOG_BASE_URL"),
			Timeout:         viper.GetDuration("WHATSAPP_TIMEOUT"),
		},
		Calendar: CalendarConfig{
			Enabled:         viper.GetBool("GCAL_ENABLED"),
			CredentialsFile: viper.GetString("GCAL_CREDENTIALS_FILE"),
			Timeout:         viper.GetDuration("GCAL_TIMEOUT"),
		},
		Classifier: ClassifierConfig{
			GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
			Model:        viper.GetString("GEMINI_MODEL"),
			Timeout:      viper.GetDuration("GEMINI_TIMEOUT"),
		},
	}

	return config, nil
}
