package config

import (
	"fmt"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Notification Configuration
	Notification NotificationConfig `json:"notification"`

	// Mail relay Configuration
	Mail MailConfig `json:"mail"`

	// Core command processor Configuration
	Core CoreConfig `json:"core"`

	// Usernames that receive the admin flag at registration
	Admins []string `json:"admins"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// NotificationConfig contains notification scheduler configuration
type NotificationConfig struct {
	Enabled bool `json:"enabled"`
}

// MailConfig contains mail relay configuration. The relay endpoint and the
// shared secret live in the secrets table, keyed by SecretName.
type MailConfig struct {
	From       string `json:"from"`
	SecretName string `json:"secret_name"`
}

// CoreConfig points at the external command processing system
type CoreConfig struct {
	URL string `json:"url"`
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}
