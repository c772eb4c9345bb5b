package auth

import "time"

// Config holds the credentials and token settings for the single browser user.
type Config struct {
	// Username is the login name.
	Username string `mapstructure:"username" default:"admin"`
	// PasswordHash is the bcrypt hash of the password (see the hash-password command).
	PasswordHash string `mapstructure:"password_hash" default:""`
	// JWTSecret signs session tokens. A random secret is generated when empty.
	JWTSecret string `mapstructure:"jwt_secret" default:""`
	// TokenTTLMinutes is the lifetime of a session token.
	TokenTTLMinutes int `mapstructure:"token_ttl_minutes" default:"60"`
}

// TokenTTL returns the session token lifetime.
func (c Config) TokenTTL() time.Duration {
	if c.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// CookieName is the cookie that carries the session token for browser clients.
const CookieName = "session_token"
