// Package browser implements the storage browsing session and its HTTP API.
//
// A Session turns the flat key space of a bucket into a folder tree. It is a
// small state machine with two states, at the root (bucket list) or inside a
// bucket at some prefix:
//
//	EnterBucket(b)     any state       -> InBucket(b, "")
//	EnterFolder(name)  InBucket(b, p)  -> InBucket(b, p+name+"/")
//	GoUp()             InBucket(b, "") -> AtRoot
//	                   InBucket(b, p)  -> InBucket(b, parent(p))
//	Reset()            any state       -> AtRoot
//
// The display path is "/" at the root and "/<bucket>/<prefix>" inside a bucket.
// Folders are zero-byte marker objects whose key ends in "/"; listings never
// report them as files.
//
// Upload, CreateFolder and DeleteObject write relative to the current prefix.
// Deleting a missing object and re-creating an existing folder both succeed.
// Errors carry a core/errs Kind and are never retried here.
//
// The Registry keeps one Session per authenticated session id, the Service
// adds the audit trail, and the Handler serves everything under /storage.
package browser
