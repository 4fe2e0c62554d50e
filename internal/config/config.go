/**
 * @description
 * This file handles the configuration management for the lending service.
 * It uses the 'viper' library to load configuration from environment
 * variables, providing a centralized and consistent way to manage
 * application settings.
 */
package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	SessionKey           string `mapstructure:"SESSION_KEY"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	RiskEventExchange    string `mapstructure:"RISK_EVENT_EXCHANGE"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	DemoEmail            string `mapstructure:"DEMO_EMAIL"`
	DemoPassword         string `mapstructure:"DEMO_PASSWORD"`
	PriceFeedURL         string `mapstructure:"PRICE_FEED_URL"`
	PriceRefreshSchedule string `mapstructure:"PRICE_REFRESH_SCHEDULE"`
	RiskScanSchedule     string `mapstructure:"RISK_SCAN_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_KEY", "pledg:session:v1")
	viper.SetDefault("RISK_EVENT_EXCHANGE", "loan.risk.events")
	viper.SetDefault("JWT_SECRET", "pledg-demo-secret")
	viper.SetDefault("DEMO_EMAIL", "demo@pledg.in")
	viper.SetDefault("DEMO_PASSWORD", "demo1234")
	viper.SetDefault("PRICE_FEED_URL", "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=inr")
	viper.SetDefault("PRICE_REFRESH_SCHEDULE", "@every 30s")
	viper.SetDefault("RISK_SCAN_SCHEDULE", "@every 5s")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("SESSION_KEY")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("RISK_EVENT_EXCHANGE")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("DEMO_EMAIL")
	_ = viper.BindEnv("DEMO_PASSWORD")
	_ = viper.BindEnv("PRICE_FEED_URL")
	_ = viper.BindEnv("PRICE_REFRESH_SCHEDULE")
	_ = viper.BindEnv("RISK_SCAN_SCHEDULE")

	err = viper.Unmarshal(&config)
	return
}
