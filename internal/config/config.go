package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	Wompi     WompiConfig     `yaml:"wompi"`
	Otp       OtpConfig       `yaml:"otp"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// EmailConfig contains notifier (SendGrid) settings
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// WompiConfig contains payment provider settings
type WompiConfig struct {
	Environment        string `yaml:"environment"` // "test" or "prod"
	PublicKey          string `yaml:"public_key"`
	PrivateKey         string `yaml:"private_key"`
	IntegritySecret    string `yaml:"integrity_secret"`
	EventsSecret       string `yaml:"events_secret"`
	APIBaseURL         string `yaml:"api_base_url"`
	CheckoutBaseURL    string `yaml:"checkout_base_url"`
	ApprovalFeePercent int    `yaml:"approval_fee_percentage"`
}

// OtpConfig contains signature code settings
type OtpConfig struct {
	ExpiryMinutes int `yaml:"expiry_minutes"`
	// TestMode makes the generated code deterministic and surfaces it in
	// API responses. Refused when the Wompi environment is "prod".
	TestMode bool `yaml:"test_mode"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	PurgeExpiredOtpCodes     string `yaml:"purge_expired_otp_codes"`
	ReconcilePendingPayments string `yaml:"reconcile_pending_payments"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	// Wompi
	if val := os.Getenv("WOMPI_ENV"); val != "" {
		c.Wompi.Environment = val
	}
	if val := os.Getenv("WOMPI_PUBLIC_KEY"); val != "" {
		c.Wompi.PublicKey = val
	}
	if val := os.Getenv("WOMPI_PRIVATE_KEY"); val != "" {
		c.Wompi.PrivateKey = val
	}
	if val := os.Getenv("WOMPI_INTEGRITY_SECRET"); val != "" {
		c.Wompi.IntegritySecret = val
	}
	if val := os.Getenv("WOMPI_EVENTS_SECRET"); val != "" {
		c.Wompi.EventsSecret = val
	}
	if val := os.Getenv("WOMPI_CHECKOUT_URL"); val != "" {
		c.Wompi.CheckoutBaseURL = val
	}

	// Otp
	if val := os.Getenv("OTP_TEST_MODE"); val == "true" {
		c.Otp.TestMode = true
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7
	}

	// Wompi validation
	if c.Wompi.Environment == "" {
		c.Wompi.Environment = "test"
	}
	if c.Wompi.Environment != "test" && c.Wompi.Environment != "prod" {
		return fmt.Errorf("invalid wompi environment: %s", c.Wompi.Environment)
	}
	if c.Wompi.IntegritySecret == "" {
		return fmt.Errorf("wompi integrity secret is required")
	}
	if c.Wompi.EventsSecret == "" {
		return fmt.Errorf("wompi events secret is required")
	}
	if c.Wompi.APIBaseURL == "" {
		if c.Wompi.Environment == "prod" {
			c.Wompi.APIBaseURL = "https://production.wompi.co/v1"
		} else {
			c.Wompi.APIBaseURL = "https://sandbox.wompi.co/v1"
		}
	}
	if c.Wompi.CheckoutBaseURL == "" {
		c.Wompi.CheckoutBaseURL = "https://checkout.wompi.co/l/"
	}
	if c.Wompi.ApprovalFeePercent == 0 {
		c.Wompi.ApprovalFeePercent = 5
	}

	// Otp validation. Test mode must never be honorable in production.
	if c.Otp.ExpiryMinutes == 0 {
		c.Otp.ExpiryMinutes = 5
	}
	if c.Otp.TestMode && c.Wompi.Environment == "prod" {
		return fmt.Errorf("otp test_mode cannot be enabled in the prod environment")
	}

	// Scheduler defaults
	if c.Scheduler.PurgeExpiredOtpCodes == "" {
		c.Scheduler.PurgeExpiredOtpCodes = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.ReconcilePendingPayments == "" {
		c.Scheduler.ReconcilePendingPayments = "0 */15 * * * *" // every 15 minutes
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
