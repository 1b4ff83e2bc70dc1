package config

import (
	"encoding/json"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/quickpay/quickpay_backend/internal/core/services"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// API client credentials for the token endpoint.
	APIClientID     string
	APIClientSecret string

	// Optional collaborators. Empty URL means the component is disabled.
	RedisURL       string
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
	WebhookURL     string
	MongoURL       string
	MongoDatabase  string

	DefaultCurrency string
	IdempotencyTTL  time.Duration
	SeedDemoData    bool

	FeePolicy        services.FeePolicy
	RiskPolicy       services.RiskPolicy
	ValidationPolicy services.ValidationPolicy
	AccountDefaults  services.AccountDefaults
}

// feeTierConfig is the JSON shape accepted in FEE_TIERS. A null upperBound
// marks the open-ended top tier.
type feeTierConfig struct {
	UpperBound *decimal.Decimal `json:"upperBound"`
	Rate       decimal.Decimal  `json:"rate"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "quickpay-backend")
	viper.SetDefault("API_CLIENT_ID", "quickpay-client")
	viper.SetDefault("API_CLIENT_SECRET", "default_insecure_client_secret_please_change_this")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "quickpay.events")
	viper.SetDefault("AMQP_ROUTING_KEY", "transfer.resolved")
	viper.SetDefault("WEBHOOK_URL", "")
	viper.SetDefault("MONGO_URL", "")
	viper.SetDefault("MONGO_DATABASE", "quickpay_audit")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("IDEMPOTENCY_TTL", "24h")
	viper.SetDefault("SEED_DEMO_DATA", false)
	viper.SetDefault("FEE_TIERS", "")
	viper.SetDefault("FEE_MAX", "")
	viper.SetDefault("RISK_HIGH_AMOUNT_THRESHOLD", "")
	viper.SetDefault("RISK_UNUSUAL_HOURS_START", -1)
	viper.SetDefault("RISK_UNUSUAL_HOURS_END", -1)
	viper.SetDefault("RISK_VELOCITY_THRESHOLD", 0)
	viper.SetDefault("RISK_VELOCITY_WINDOW", "")
	viper.SetDefault("RISK_NEW_ACCOUNT_AGE", "")
	viper.SetDefault("FRAUD_BLOCK_THRESHOLD", "")
	viper.SetDefault("MAX_TRANSFER_AMOUNT", "")
	viper.SetDefault("ACCOUNT_DEFAULT_DAILY_LIMIT", "")
	viper.SetDefault("ACCOUNT_DEFAULT_MINIMUM_BALANCE", "")

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
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.APIClientID = viper.GetString("API_CLIENT_ID")
	cfg.APIClientSecret = viper.GetString("API_CLIENT_SECRET")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.AMQPExchange = viper.GetString("AMQP_EXCHANGE")
	cfg.AMQPRoutingKey = viper.GetString("AMQP_ROUTING_KEY")
	cfg.WebhookURL = viper.GetString("WEBHOOK_URL")
	cfg.MongoURL = viper.GetString("MONGO_URL")
	cfg.MongoDatabase = viper.GetString("MONGO_DATABASE")

	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	cfg.SeedDemoData = viper.GetBool("SEED_DEMO_DATA")

	idempotencyTTL, err := time.ParseDuration(viper.GetString("IDEMPOTENCY_TTL"))
	if err != nil {
		idempotencyTTL = 24 * time.Hour
	}
	cfg.IdempotencyTTL = idempotencyTTL

	cfg.FeePolicy = loadFeePolicy()
	cfg.RiskPolicy = loadRiskPolicy()
	cfg.ValidationPolicy = loadValidationPolicy()
	cfg.AccountDefaults = loadAccountDefaults(cfg.DefaultCurrency)

	return cfg, nil
}

// loadFeePolicy builds the tiered fee schedule. Tiers may be replaced wholesale
// via the FEE_TIERS JSON env var; otherwise the built-in schedule applies.
func loadFeePolicy() services.FeePolicy {
	policy := services.DefaultFeePolicy()

	if tiersJSON := viper.GetString("FEE_TIERS"); tiersJSON != "" {
		var tierCfgs []feeTierConfig
		if err := json.Unmarshal([]byte(tiersJSON), &tierCfgs); err != nil || len(tierCfgs) == 0 {
			log.Printf("Warning: Invalid FEE_TIERS value, keeping default schedule: %v\n", err)
		} else {
			tiers := make([]services.FeeTier, len(tierCfgs))
			for i, tc := range tierCfgs {
				tiers[i] = services.FeeTier{UpperBound: tc.UpperBound, Rate: tc.Rate}
			}
			policy.Tiers = tiers
		}
	}
	if maxStr := viper.GetString("FEE_MAX"); maxStr != "" {
		if max, err := decimal.NewFromString(maxStr); err == nil {
			policy.MaxFee = max
		} else {
			log.Printf("Warning: Invalid FEE_MAX value ('%s'), keeping default cap.\n", maxStr)
		}
	}
	return policy
}

func loadRiskPolicy() services.RiskPolicy {
	policy := services.DefaultRiskPolicy()

	if s := viper.GetString("RISK_HIGH_AMOUNT_THRESHOLD"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			policy.HighAmountThreshold = d
		}
	}
	if h := viper.GetInt("RISK_UNUSUAL_HOURS_START"); h >= 0 && h < 24 {
		policy.UnusualHoursStart = h
	}
	if h := viper.GetInt("RISK_UNUSUAL_HOURS_END"); h >= 0 && h < 24 {
		policy.UnusualHoursEnd = h
	}
	if n := viper.GetInt64("RISK_VELOCITY_THRESHOLD"); n > 0 {
		policy.VelocityThreshold = n
	}
	if s := viper.GetString("RISK_VELOCITY_WINDOW"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			policy.VelocityWindow = d
		}
	}
	if s := viper.GetString("RISK_NEW_ACCOUNT_AGE"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			policy.NewAccountAge = d
		}
	}
	// A non-positive threshold disables blocking: scoring stays advisory.
	if s := viper.GetString("FRAUD_BLOCK_THRESHOLD"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			policy.BlockThreshold = d
		}
	}
	return policy
}

func loadValidationPolicy() services.ValidationPolicy {
	policy := services.DefaultValidationPolicy()
	if s := viper.GetString("MAX_TRANSFER_AMOUNT"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil && d.IsPositive() {
			policy.MaxTransferAmount = d
		}
	}
	return policy
}

func loadAccountDefaults(currency string) services.AccountDefaults {
	defaults := services.DefaultAccountDefaults()
	defaults.CurrencyCode = currency
	if s := viper.GetString("ACCOUNT_DEFAULT_DAILY_LIMIT"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil && d.IsPositive() {
			defaults.DailyLimit = d
		}
	}
	if s := viper.GetString("ACCOUNT_DEFAULT_MINIMUM_BALANCE"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil && !d.IsNegative() {
			defaults.MinimumBalance = d
		}
	}
	return defaults
}
