package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// ReferralBonusPoints is the fixed bonus credited to both sides of a
	// referral when the referred account is approved.
	ReferralBonusPoints decimal.Decimal

	// RecalcCronSpec schedules the in-process household recalculation job.
	// Empty disables the scheduler; cmd/recalc remains available either way.
	RecalcCronSpec string

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("REFERRAL_BONUS_POINTS", "50")
	viper.SetDefault("RECALC_CRON_SPEC", "0 3 * * *")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	bonusStr := viper.GetString("REFERRAL_BONUS_POINTS")
	bonus, err := decimal.NewFromString(bonusStr)
	if err != nil || !bonus.IsPositive() {
		bonus = decimal.NewFromInt(50)
		log.Printf("Warning: Invalid value for REFERRAL_BONUS_POINTS ('%s'). Defaulting to %s.\n", bonusStr, bonus.String())
	}
	cfg.ReferralBonusPoints = bonus

	cfg.RecalcCronSpec = viper.GetString("RECALC_CRON_SPEC")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
