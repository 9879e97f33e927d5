package config

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	conf     *viper.Viper
	loadOnce sync.Once
)

func load() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn(".env file not found, reading from system environment variables")
	}

	conf = viper.New()
	conf.SetDefault("PORT", "8080")
	conf.SetDefault("APP_ENV", "development")
	conf.SetDefault("JWT_EXPIRY_HOURS", 72)
	conf.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	conf.SetDefault("CLOUDINARY_FOLDER", "learnsphere")
	conf.SetDefault("FRONTEND_URL", "http://localhost:5173")
	conf.AutomaticEnv()
}

// Config returns the value of key from the environment, .env or the built-in defaults.
func Config(key string) string {
	loadOnce.Do(load)
	return conf.GetString(key)
}

func ConfigInt(key string) int {
	loadOnce.Do(load)
	return conf.GetInt(key)
}

func IsProduction() bool {
	return strings.EqualFold(Config("APP_ENV"), "production")
}
