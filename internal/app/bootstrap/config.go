// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for YieldHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: YIELDHUB_MONGO_URI, YIELDHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "yield_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "yieldhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Daily distribution schedule
	{Name: "distribution_enabled", Default: true, Desc: "Run the in-process daily distribution scheduler"},
	{Name: "distribution_hour", Default: 0, Desc: "Hour of day (0-23) the daily distribution fires"},
	{Name: "distribution_minute", Default: 5, Desc: "Minute (0-59) the daily distribution fires"},
	{Name: "distribution_timezone", Default: "UTC", Desc: "IANA timezone that defines the business day"},

	// Reconciliation
	{Name: "reconcile_interval", Default: "1h", Desc: "How often to reconcile the day's profit ledger (empty disables)"},

	// Bootstrap admin
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (created/promoted on startup)"},
	{Name: "admin_password", Default: "", Desc: "Initial admin password (used only when the account is created)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_distribution", Default: "all", Desc: "Distribution event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Base URL for links in responses
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, YIELDHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "YIELDHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		DistributionEnabled:  appValues.Bool("distribution_enabled"),
		DistributionHour:     appValues.Int("distribution_hour"),
		DistributionMinute:   appValues.Int("distribution_minute"),
		DistributionTimezone: appValues.String("distribution_timezone"),

		ReconcileInterval: appValues.String("reconcile_interval"),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),

		AuditLogAuth:         appValues.String("audit_log_auth"),
		AuditLogAdmin:        appValues.String("audit_log_admin"),
		AuditLogDistribution: appValues.String("audit_log_distribution"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// YieldHub validates the MongoDB URI format and the distribution
// schedule early, before attempting to connect or arm timers.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.DistributionHour < 0 || appCfg.DistributionHour > 23 {
		return fmt.Errorf("distribution_hour must be 0-23, got %d", appCfg.DistributionHour)
	}
	if appCfg.DistributionMinute < 0 || appCfg.DistributionMinute > 59 {
		return fmt.Errorf("distribution_minute must be 0-59, got %d", appCfg.DistributionMinute)
	}
	if _, err := time.LoadLocation(appCfg.DistributionTimezone); err != nil {
		return fmt.Errorf("invalid distribution_timezone %q: %w", appCfg.DistributionTimezone, err)
	}
	if appCfg.ReconcileInterval != "" {
		if _, err := time.ParseDuration(appCfg.ReconcileInterval); err != nil {
			return fmt.Errorf("invalid reconcile_interval %q: %w", appCfg.ReconcileInterval, err)
		}
	}

	// An admin email without a password is fine (promote-only), but a
	// password without an email is a configuration mistake.
	if appCfg.AdminPassword != "" && appCfg.AdminEmail == "" {
		return fmt.Errorf("admin_password set without admin_email")
	}

	return nil
}
