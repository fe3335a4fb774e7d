package wire

import (
	"os"
	"strings"

	"assistant/internal/api"
	"assistant/internal/config"
	"assistant/internal/core"
	"assistant/internal/dbmysql"
	"assistant/internal/notify"
	"assistant/internal/session"
	"assistant/internal/user"

	"gorm.io/gorm"
)

// Application bundles everything main needs to run the service
type Application struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions *session.Store
	Handler  *api.Handler
	Notifier *notify.Handler
}

func ProvideConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvOrDefault("SERVER_PORT", "8080"),
			ReadTimeout:  15,
			WriteTimeout: 15,
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: config.DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "assistant"),
			Password:     getEnvOrDefault("DB_PASSWORD", ""),
			DatabaseName: getEnvOrDefault("DB_NAME", "assistant"),
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Notification: config.NotificationConfig{
			Enabled: getEnvOrDefault("NOTIFICATIONS_ENABLED", "true") == "true",
		},
		Mail: config.MailConfig{
			From:       getEnvOrDefault("MAIL_FROM", "assistant <postmaster@localhost>"),
			SecretName: getEnvOrDefault("MAIL_SECRET_NAME", "mailgun"),
		},
		Core: config.CoreConfig{
			URL: getEnvOrDefault("CORE_URL", "http://localhost:9090"),
		},
		Admins: splitList(os.Getenv("ADMIN_USERS")),
	}
}

func ProvideUserService(repo user.UserRepository, cfg *config.Config) user.UserService {
	return user.NewUserService(repo, cfg.Admins)
}

func ProvideProcessor(cfg *config.Config) core.Processor {
	return core.NewHTTPProcessor(cfg.Core.URL)
}

func ProvideChannels(secrets dbmysql.SecretRepository, cfg *config.Config) []notify.Channel {
	return []notify.Channel{
		notify.NewEmailChannel(secrets, cfg.Mail.SecretName, cfg.Mail.From),
	}
}

// ProvideNotificationHandler builds the scheduler, or nothing at all when
// notifications are switched off. main treats a nil Notifier as disabled.
func ProvideNotificationHandler(
	cfg *config.Config,
	repo dbmysql.NotificationRepository,
	users user.UserService,
	channels []notify.Channel,
) *notify.Handler {
	if !cfg.Notification.Enabled {
		return nil
	}
	return notify.NewHandler(repo, users, channels)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
