package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`

	StripeSecretKey     string `yaml:"stripe_secret_key"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret"`

	// PriceIDs maps product tiers to Stripe price identifiers.
	TrialPriceID     string `yaml:"trial_price_id"`
	UnlimitedPriceID string `yaml:"unlimited_price_id"`

	// CronSecret authorizes the scheduler that triggers the sweeps.
	CronSecret string `yaml:"cron_secret"`

	// VoiceWebhookToken authorizes the voice-agent conversation webhook.
	VoiceWebhookToken string `yaml:"voice_webhook_token"`

	// JWTSecret signs tokens for the internal admin API.
	JWTSecret string `yaml:"jwt_secret"`

	// Sweep windows. Zero values fall back to defaults at the handler.
	ReconcileWindow   time.Duration `yaml:"reconcile_window"`
	AbandonStaleAge   time.Duration `yaml:"abandon_stale_age"`
	AbandonCleanupAge time.Duration `yaml:"abandon_cleanup_age"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int64         `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	// TaskChannel is the pub/sub channel for internal follow-up tasks.
	TaskChannel string `yaml:"task_channel"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// CRMConfig configures the marketing CRM integration.
type CRMConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	ListID    int64  `yaml:"list_id"`
	EventName string `yaml:"event_name"`
}

// TrackingConfig configures server-side conversion tracking.
type TrackingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	EndpointURL string `yaml:"endpoint_url"`
	AccessToken string `yaml:"access_token"`
	PixelID     string `yaml:"pixel_id"`
}
