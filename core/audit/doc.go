// Package audit records write operations (upload, folder creation, delete)
// performed through the browser, with the user, target key and outcome.
//
// Entries are stored through GORM when a database is available; otherwise
// NopRecorder keeps the browser fully functional without persistence.
package audit
