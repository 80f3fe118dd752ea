package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	StoreDriver       string
	DataFile          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	SQLitePath        string
	MongoURI          string
	MongoDatabase     string
	RedisHost         string
	RedisPort         string
	SessionStore      string
	SessionSecret     string
	GinMode           string
	OpenAIAPIKey      string
	OpenAIModel       string
	AdminIDs          []string
	AdminPasswordHash string
	WebhookSecret     string
	ChatOutboundURL   string
	ListenAddr        string
	LogLevel          string
}

var defaults = map[string]string{
	"STORE_DRIVER":   "file",
	"DATA_FILE":      "data.json",
	"DB_HOST":        "localhost",
	"DB_PORT":        "3306",
	"DB_USER":        "progressbot",
	"DB_PASSWORD":    "progressbot",
	"DB_NAME":        "progress_bot",
	"SQLITE_PATH":    "progress_bot.db",
	"MONGO_URI":      "mongodb://localhost:27017",
	"MONGO_DATABASE": "progress_bot",
	"REDIS_HOST":     "localhost",
	"REDIS_PORT":     "6379",
	"SESSION_STORE":  "cookie",
	"SESSION_SECRET": "default-secret-key-change-me",
	"GIN_MODE":       "debug",
	"OPENAI_MODEL":   "gpt-4o",
	"LISTEN_ADDR":    ":8080",
	"LOG_LEVEL":      "warn",
}

// New returns a viper instance bound to the process environment with every default registered.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment.
func Load() *Config {
	return FromViper(New())
}

// LoadFile reads configuration from a file, with environment variables taking precedence.
func LoadFile(path string) (*Config, error) {
	v := New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return FromViper(v), nil
}

func FromViper(v *viper.Viper) *Config {
	return &Config{
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		DataFile:          v.GetString("DATA_FILE"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDatabase:     v.GetString("MONGO_DATABASE"),
		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetString("REDIS_PORT"),
		SessionStore:      strings.ToLower(v.GetString("SESSION_STORE")),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		GinMode:           v.GetString("GIN_MODE"),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		OpenAIModel:       v.GetString("OPENAI_MODEL"),
		AdminIDs:          splitList(v.GetString("ADMIN_IDS")),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		WebhookSecret:     v.GetString("WEBHOOK_SECRET"),
		ChatOutboundURL:   v.GetString("CHAT_OUTBOUND_URL"),
		ListenAddr:        v.GetString("LISTEN_ADDR"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
