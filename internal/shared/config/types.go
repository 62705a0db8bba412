package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path" validate:"required"`
	PoolSize      int    `mapstructure:"pool_size" validate:"min=1"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms" validate:"min=1000"`
}

// DSN builds the sqlite connection string. WAL journaling and foreign key
// enforcement are connection-level pragmas, so they ride on the DSN to cover
// every pooled connection.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on",
		d.Path, d.BusyTimeoutMS)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type SubscriptionConfig struct {
	BundleTTLSeconds   int    `mapstructure:"bundle_ttl_seconds" validate:"min=1"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute" validate:"min=1"`
	GracePeriodSeconds int    `mapstructure:"grace_period_seconds" validate:"min=0"`
	PollIntervalSec    int    `mapstructure:"poll_interval_seconds" validate:"min=1"`
	ProfileTitle       string `mapstructure:"profile_title"`
	KeyEmailDomain     string `mapstructure:"key_email_domain" validate:"required"`
	SupportUsername    string `mapstructure:"support_username"`
}

type BackendConfig struct {
	TimeoutSeconds        int `mapstructure:"timeout_seconds" validate:"min=1"`
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds" validate:"min=1"`
}

type AdminConfig struct {
	JWTSecret        string `mapstructure:"jwt_secret" validate:"required"`
	SessionMaxAgeSec int    `mapstructure:"session_max_age_seconds" validate:"min=60"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type TelegramConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BotToken    string `mapstructure:"bot_token"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
}
