// Package middleware groups the HTTP middleware for the Fiber application.
//
// # Components
//
//   - rayid: tags every request with a RayID (X-Ray-ID header and logger field).
//   - auth: validates the session token (bearer header or cookie) and binds the
//     request to its browsing session. In debug mode every request is bound to a
//     single "debug" session.
//
// rayid is registered globally; auth is registered after the public features so
// that login, pages and swagger stay reachable without a token.
package middleware
