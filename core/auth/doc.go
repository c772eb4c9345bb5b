// Package auth authenticates the browser's single configured user and issues
// signed session tokens.
//
// Passwords are stored as bcrypt hashes. A successful login yields an HS256 JWT
// whose "sid" claim names the browsing session that the token owns; the token
// travels as a bearer header or the session_token cookie.
package auth
