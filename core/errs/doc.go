// Package errs defines the fixed error taxonomy shared by the storage gateway
// and the browsing session.
//
// Backends translate their native failures into one of five kinds:
//
//   - NotFound: bucket or object missing
//   - AccessDenied: credentials rejected or permission missing
//   - TransientBackendError: network failure, timeout, backend 5xx (retryable by the caller)
//   - InvalidArgument: bad caller input, or an operation not valid in the current state
//   - AlreadyExists: backend-reported conflict
//
// # Usage
//
//	if errs.IsNotFound(err) {
//	    return c.Status(fiber.StatusNotFound).JSON(...)
//	}
package errs
