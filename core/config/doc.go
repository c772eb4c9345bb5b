// Package config loads the application configuration.
//
// Values come from the environment (and an optional .env file loaded with
// godotenv) through Viper. Defaults live in the `default` struct tags of each
// section and are registered by reflection, so every key can be overridden with
// an upper-cased SECTION_KEY variable, e.g. STORAGE_ENDPOINT or AUTH_JWT_SECRET.
//
// Sections:
//   - Server: HTTP port, debug mode, session TTL, body limit
//   - Storage: provider (minio, s3), endpoint, credentials, presign TTL, upload concurrency
//   - Auth: username, bcrypt password hash, JWT secret, token TTL
//   - Log: level and format
//   - Database: optional audit database (sqlite or mysql)
//
//	cfg, err := config.LoadConfig(".")
package config
