// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines the
// settings it reads: listen port, browsing-session idle timeout, request body
// limit and the debug switch that bypasses authentication.
package server
