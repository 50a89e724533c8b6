// Package config loads the server configuration from environment variables.
// Every setting has a default except where noted, and the whole
// configuration is validated at startup so misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Profile  ProfileConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including draining
	// in-flight profiling runs.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the per-request middleware deadline. Profiling a
	// large workbook happens inside the request, so keep this generous.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"120s"`
}

// UploadConfig holds multipart intake settings.
type UploadConfig struct {
	// MaxRequestSize caps the request body in bytes (default: 64MB). It must
	// stay above the 10 MB file ceiling so oversized files reach validation
	// and get a message with their size.
	MaxRequestSize int64 `env:"UPLOAD_MAX_REQUEST_SIZE" default:"67108864"`

	// MaxMemory is the multipart parse memory before spilling to disk.
	MaxMemory int64 `env:"UPLOAD_MAX_MEMORY" default:"33554432"`
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	MaxConcurrent int           `env:"PROFILE_MAX_CONCURRENT" default:"4"`
	MaxWait       time.Duration `env:"PROFILE_MAX_WAIT" default:"30s"`
	TopValues     int           `env:"PROFILE_TOP_VALUES" default:"10"`
	HistogramBins int           `env:"PROFILE_HISTOGRAM_BINS" default:"10"`
	SampleRows    int           `env:"PROFILE_SAMPLE_ROWS" default:"10"`
}

// SessionConfig holds the in-memory session store settings.
type SessionConfig struct {
	TTL              time.Duration `env:"SESSION_TTL" default:"30m"`
	SweepInterval    time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`
	MaxCachedReports int           `env:"SESSION_MAX_CACHED_REPORTS" default:"8"`
	CookieSecure     bool          `env:"SESSION_COOKIE_SECURE" default:"false"`
}

// RateLimitConfig holds per-IP rate limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// UploadLimit applies to POST /upload and POST /api/profile.
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies lists proxy CIDRs whose forwarding headers are honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
	EnableCSP      bool     `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`  // debug, info, warn, error
	Format string `env:"LOG_FORMAT" default:"text"` // text or json
}

// DatabaseConfig configures the optional PostgreSQL run history. Without a
// URL, run history is kept in memory.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL" envAlt:"DB_URL"`
	MaxConns        int           `env:"DB_MAX_CONNS" default:"5"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
