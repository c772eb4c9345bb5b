package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// SessionTTLMinutes is how long an idle browsing session is kept.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" default:"60"`
	// Debug authenticates every request as the debug user.
	Debug bool `mapstructure:"debug" default:"false"`
	// CookieSecure marks the session cookie as HTTPS-only.
	CookieSecure bool `mapstructure:"cookie_secure" default:"false"`
	// BodyLimitMB caps request bodies, uploads included.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}

// SessionTTL returns the idle timeout for browsing sessions.
func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 64 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}
