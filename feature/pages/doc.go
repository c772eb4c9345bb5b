// Package pages serves the home page, the navigation bar entries and /health.
package pages
