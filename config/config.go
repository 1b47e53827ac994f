package config

import (
	"strings"
	"time"

	"hotel-manager/services"
	"hotel-manager/utils"
)

// Config is the runtime configuration, read from the environment (and .env).
type Config struct {
	Port        string
	DBDriver    string // mysql, postgres or sqlite
	SQLitePath  string
	DBLogLevel  string
	UploadDir   string
	CorsOrigins []string

	JWTSecret  string
	AccessTTL  time.Duration
	BcryptCost int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LoginLimit    int
	LoginWindow   time.Duration

	Notifier    string // log, smtp or amqp
	RabbitMQURL string
	SMTP        services.SMTPConfig

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

const defaultJWTSecret = "change-me-in-production"

func Load() Config {
	return Config{
		Port:        utils.EnvOrDefault("PORT", "8080"),
		DBDriver:    strings.ToLower(utils.EnvOrDefault("DB_DRIVER", "mysql")),
		SQLitePath:  utils.EnvOrDefault("SQLITE_PATH", "hotel.db"),
		DBLogLevel:  strings.ToLower(utils.EnvOrDefault("DB_LOG_LEVEL", "warn")),
		UploadDir:   utils.EnvOrDefault("UPLOAD_DIR", "uploads"),
		CorsOrigins: parseCorsOrigins(utils.EnvOrDefault("CORS_ORIGINS", "")),

		JWTSecret:  utils.EnvOrDefault("JWT_SECRET", defaultJWTSecret),
		AccessTTL:  utils.EnvMinutes("ACCESS_TOKEN_TTL_MIN", 12*60),
		BcryptCost: utils.EnvInt("BCRYPT_COST", 0),

		RedisAddr:     redisAddr(),
		RedisPassword: utils.EnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       utils.EnvInt("REDIS_DB", 0),
		LoginLimit:    utils.EnvInt("LOGIN_RATE_LIMIT", 10),
		LoginWindow:   utils.EnvMinutes("LOGIN_RATE_WINDOW_MIN", 15),

		Notifier:    strings.ToLower(utils.EnvOrDefault("NOTIFIER", "log")),
		RabbitMQURL: utils.EnvOrDefault("RABBITMQ_URL", utils.EnvOrDefault("AMQP_URL", "")),
		SMTP: services.SMTPConfig{
			Host:     utils.EnvOrDefault("SMTP_HOST", ""),
			Port:     utils.EnvOrDefault("SMTP_PORT", ""),
			Username: utils.EnvOrDefault("SMTP_USERNAME", ""),
			Password: utils.EnvOrDefault("SMTP_PASSWORD", ""),
			FromName: utils.EnvOrDefault("SMTP_FROM_NAME", "Hotel Front Desk"),
		},

		AdminUsername: utils.EnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    utils.EnvOrDefault("ADMIN_EMAIL", "admin@hotel.com"),
		AdminPassword: utils.EnvOrDefault("ADMIN_PASSWORD", "admin123"),
	}
}

// UsingDefaultSecret reports whether JWT_SECRET was left unset.
func (c Config) UsingDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func (c Config) Auth() services.AuthConfig {
	return services.AuthConfig{JWTSecret: c.JWTSecret, AccessTTL: c.AccessTTL, BcryptCost: c.BcryptCost}
}

// redisAddr is REDIS_HOST:REDIS_PORT when both are set, else REDIS_ADDR. Empty disables Redis.
func redisAddr() string {
	host := utils.EnvOrDefault("REDIS_HOST", "")
	port := utils.EnvOrDefault("REDIS_PORT", "")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return utils.EnvOrDefault("REDIS_ADDR", "")
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
