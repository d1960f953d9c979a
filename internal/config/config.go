package config

import (
	"os"
	"time"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/tokens"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

const (
	AppName          = "expensebuddy-api"
	OrganizationName = "ExpenseBuddy"
)

// Default audience TTLs: access short, refresh long, the emailed audiences
// in between.
const (
	DefaultAccessTokenTTL            = 15 * time.Minute
	DefaultRefreshTokenTTL           = 7 * 24 * time.Hour
	DefaultEmailVerificationTokenTTL = 24 * time.Hour
	DefaultPasswordResetTokenTTL     = 1 * time.Hour
	DefaultFamilyInvitationTokenTTL  = 72 * time.Hour
)

// Config holds all application configuration. Loaded once at process start
// and never mutated at runtime.
type Config struct {
	AppName          string
	OrganizationName string
	AppPort          string
	AppUrl           string
	DBUrl            string
	RedisURL         string

	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridSandboxMode bool

	AccessTokenSecret            string
	RefreshTokenSecret           string
	EmailVerificationTokenSecret string
	PasswordResetTokenSecret     string
	FamilyInvitationTokenSecret  string

	AccessTokenTTL            time.Duration
	RefreshTokenTTL           time.Duration
	EmailVerificationTokenTTL time.Duration
	PasswordResetTokenTTL     time.Duration
	FamilyInvitationTokenTTL  time.Duration
}

// LoadConfig reads the environment and returns a *Config, exiting on any
// missing required variable.
func LoadConfig() *Config {
	return &Config{
		AppName:          AppName,
		OrganizationName: OrganizationName,
		AppPort:          requireEnv("APP_PORT"),
		AppUrl:           requireEnv("APP_URL"),
		DBUrl:            requireEnv("DB_URL"),
		RedisURL:         requireEnv("REDIS_URL"),

		SendGridAPIKey:      requireEnv("SENDGRID_API_KEY"),
		SendGridFromEmail:   requireEnv("SENDGRID_FROM_EMAIL"),
		SendGridSandboxMode: os.Getenv("SENDGRID_SANDBOX_MODE") == "true",

		AccessTokenSecret:            requireEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:           requireEnv("REFRESH_TOKEN_SECRET"),
		EmailVerificationTokenSecret: requireEnv("EMAIL_VERIFICATION_TOKEN_SECRET"),
		PasswordResetTokenSecret:     requireEnv("PASSWORD_RESET_TOKEN_SECRET"),
		FamilyInvitationTokenSecret:  requireEnv("FAMILY_INVITATION_TOKEN_SECRET"),

		AccessTokenTTL:            durationEnv("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL),
		RefreshTokenTTL:           durationEnv("REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL),
		EmailVerificationTokenTTL: durationEnv("EMAIL_VERIFICATION_TOKEN_TTL", DefaultEmailVerificationTokenTTL),
		PasswordResetTokenTTL:     durationEnv("PASSWORD_RESET_TOKEN_TTL", DefaultPasswordResetTokenTTL),
		FamilyInvitationTokenTTL:  durationEnv("FAMILY_INVITATION_TOKEN_TTL", DefaultFamilyInvitationTokenTTL),
	}
}

// AudienceConfigs maps the per-audience secrets and TTLs into the shape the
// token codec expects.
func (c *Config) AudienceConfigs() map[tokens.Audience]tokens.AudienceConfig {
	return map[tokens.Audience]tokens.AudienceConfig{
		tokens.AudienceAccess:            {Secret: c.AccessTokenSecret, TTL: c.AccessTokenTTL},
		tokens.AudienceRefresh:           {Secret: c.RefreshTokenSecret, TTL: c.RefreshTokenTTL},
		tokens.AudienceEmailVerification: {Secret: c.EmailVerificationTokenSecret, TTL: c.EmailVerificationTokenTTL},
		tokens.AudiencePasswordReset:     {Secret: c.PasswordResetTokenSecret, TTL: c.PasswordResetTokenTTL},
		tokens.AudienceFamilyInvitation:  {Secret: c.FamilyInvitationTokenSecret, TTL: c.FamilyInvitationTokenTTL},
	}
}

func requireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func durationEnv(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.Logger.Fatalf("%s is not a valid duration: %v", name, err)
	}
	return d
}
