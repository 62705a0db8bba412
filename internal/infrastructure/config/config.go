package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "github.com/merdocx/veilbot/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Subscription sharedConfig.SubscriptionConfig `mapstructure:"subscription"`
	Backend      sharedConfig.BackendConfig      `mapstructure:"backend"`
	Admin        sharedConfig.AdminConfig        `mapstructure:"admin"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Telegram     sharedConfig.TelegramConfig     `mapstructure:"telegram"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("VEILBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional: env variables plus defaults are enough
		// for the worker and test environments.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.path", "veilbot.db")
	viper.SetDefault("database.pool_size", 5)
	viper.SetDefault("database.busy_timeout_ms", 30000)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("subscription.bundle_ttl_seconds", 300)
	viper.SetDefault("subscription.rate_limit_per_minute", 60)
	viper.SetDefault("subscription.grace_period_seconds", 86400)
	viper.SetDefault("subscription.poll_interval_seconds", 60)
	viper.SetDefault("subscription.profile_title", "Vee VPN")
	viper.SetDefault("subscription.key_email_domain", "veilbot.local")
	viper.SetDefault("subscription.support_username", "")

	viper.SetDefault("backend.timeout_seconds", 30)
	viper.SetDefault("backend.connect_timeout_seconds", 5)

	viper.SetDefault("admin.jwt_secret", "change-me-in-production")
	viper.SetDefault("admin.session_max_age_seconds", 86400)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("telegram.enabled", false)
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.admin_chat_id", 0)
}
