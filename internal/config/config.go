package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                        string        `mapstructure:"ENV"`
	Port                       string        `mapstructure:"PORT"`
	DatabaseURL                string        `mapstructure:"DATABASE_URL"`
	AdminKey                   string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed                string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout             time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel                   string        `mapstructure:"LOG_LEVEL"`
	MartDataset                string        `mapstructure:"MART_DATASET"`
	StagingDataset             string        `mapstructure:"STAGING_DATASET"`
	PricingMode                string        `mapstructure:"PRICING_MODE"`
	DefaultElasticity          float64       `mapstructure:"DEFAULT_ELASTICITY"`
	MaxPriceAdjustment         float64       `mapstructure:"MAX_PRICE_ADJUSTMENT"`
	MaxCompsPerUnit            int           `mapstructure:"MAX_COMPS_PER_UNIT"`
	MaxConcurrentOptimizations int64         `mapstructure:"MAX_CONCURRENT_OPTIMIZATIONS"`
	MaxBatchUnits              int           `mapstructure:"MAX_BATCH_UNITS"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MART_DATASET", "mart")
	v.SetDefault("STAGING_DATASET", "staging")
	v.SetDefault("PRICING_MODE", "elastic")
	v.SetDefault("DEFAULT_ELASTICITY", -0.003)
	v.SetDefault("MAX_PRICE_ADJUSTMENT", 0.25)
	v.SetDefault("MAX_COMPS_PER_UNIT", 10)
	v.SetDefault("MAX_CONCURRENT_OPTIMIZATIONS", 100)
	v.SetDefault("MAX_BATCH_UNITS", 100)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
