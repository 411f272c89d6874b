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
//   - Database connection timeouts
//
// AppConfig is where everything specific to LexHub lives: the MongoDB
// connection, session signing, audit logging levels, and Google OAuth.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://lexhub.example.com" or "http://localhost:3000"

	// Audit logging settings ("all", "db", "log", or "off")
	AuditLogAuth   string // authentication events
	AuditLogAccess string // access administration events

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
}
