// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to YieldHub lives: the MongoDB
// connection, session cookies, the daily distribution schedule, and the
// bootstrap admin account.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: yieldhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Daily profit distribution schedule
	DistributionEnabled  bool   // Run the in-process daily scheduler
	DistributionHour     int    // Wall-clock hour to fire (0-23)
	DistributionMinute   int    // Wall-clock minute to fire (0-59)
	DistributionTimezone string // IANA zone that defines the business day (e.g., America/Chicago)

	// Reconciliation job
	ReconcileInterval string // How often to diff eligible investments against the day's ledger (e.g., 1h); empty disables

	// Bootstrap admin account (created/promoted on startup)
	AdminEmail    string // Email of the admin user
	AdminPassword string // Initial password, only used when the account does not exist yet

	// Audit logging settings
	AuditLogAuth         string // 'all', 'db', 'log', or 'off'
	AuditLogAdmin        string
	AuditLogDistribution string

	// Base URL for links in responses
	BaseURL string // e.g., "https://yieldhub.example.com" or "http://localhost:3000"
}
