package browser

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"bucket-browser/core/errs"
	"bucket-browser/core/storage"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

const (
	rootPath = "/"

	defaultUploadConcurrency = 4
)

// NavigationState is a read-only snapshot of where a session currently is.
type NavigationState struct {
	Bucket      string `json:"bucket"`
	InBucket    bool   `json:"in_bucket"`
	Prefix      string `json:"prefix"`
	DisplayPath string `json:"display_path"`
}

// CanGoBack reports whether the back button should be enabled.
func (s NavigationState) CanGoBack() bool {
	return s.DisplayPath != rootPath
}

// FolderEntry is an immediate child folder of the current prefix.
type FolderEntry struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// FileEntry is an object directly under the current prefix.
type FileEntry struct {
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	SizeHuman    string    `json:"size_human"`
	LastModified time.Time `json:"last_modified"`
	DownloadURL  string    `json:"download_url"`
}

// Listing is the normalised content of the current folder.
type Listing struct {
	Bucket  string        `json:"bucket"`
	Prefix  string        `json:"prefix"`
	Folders []FolderEntry `json:"folders"`
	Files   []FileEntry   `json:"files"`
}

// UploadFile is one file of an upload batch. Size may be -1 when unknown.
type UploadFile struct {
	Name string
	Body io.Reader
	Size int64
}

// ObjectRef names the object a write operation targeted.
type ObjectRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// UploadOutcome reports the result for the file at the same index of the batch.
type UploadOutcome struct {
	ObjectRef
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// OK reports whether the file was stored.
func (o UploadOutcome) OK() bool {
	return o.Err == nil
}

// Option customises a Session.
type Option func(*Session)

// WithPresignTTL sets the lifetime of download links in listings.
func WithPresignTTL(ttl time.Duration) Option {
	return func(s *Session) {
		if ttl > 0 {
			s.presignTTL = ttl
		}
	}
}

// WithUploadConcurrency caps how many files of a batch are uploaded at once.
func WithUploadConcurrency(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.uploadConcurrency = n
		}
	}
}

// Session is one user's walk through the object store.
//
// All methods are safe for concurrent use; operations on one session are
// serialised, so a write is always visible to the next listing issued after it.
// A failed operation never changes the navigation state.
type Session struct {
	mu      sync.Mutex
	gateway storage.Gateway

	bucket   string
	inBucket bool
	prefix   string

	presignTTL        time.Duration
	uploadConcurrency int
}

// NewSession creates a session at the root.
func NewSession(gateway storage.Gateway, opts ...Option) *Session {
	s := &Session{
		gateway:           gateway,
		presignTTL:        storage.DefaultPresignTTL,
		uploadConcurrency: defaultUploadConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current navigation state.
func (s *Session) State() NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() NavigationState {
	if !s.inBucket {
		return NavigationState{DisplayPath: rootPath}
	}
	return NavigationState{
		Bucket:      s.bucket,
		InBucket:    true,
		Prefix:      s.prefix,
		DisplayPath: rootPath + s.bucket + storage.Delimiter + s.prefix,
	}
}

// EnterBucket moves to the root of bucket. The bucket is not checked for
// existence; a missing one shows up as NotFound on the next listing.
func (s *Session) EnterBucket(bucket string) (NavigationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(bucket) == "" {
		return s.stateLocked(), errs.Invalid("bucket name is empty")
	}
	s.bucket, s.inBucket, s.prefix = bucket, true, ""
	return s.stateLocked(), nil
}

// EnterFolder descends into the child folder name of the current prefix.
// The name is expected to come from the last listing and is not re-validated
// against the backend.
func (s *Session) EnterFolder(name string) (NavigationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inBucket {
		return s.stateLocked(), errs.Invalid("no bucket selected")
	}
	if name == "" || strings.Contains(name, storage.Delimiter) {
		return s.stateLocked(), errs.Invalid("invalid folder name %q", name)
	}
	s.prefix = s.prefix + name + storage.Delimiter
	return s.stateLocked(), nil
}

// GoUp pops one folder level. From the root of a bucket it leaves the bucket.
func (s *Session) GoUp() (NavigationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inBucket {
		return s.stateLocked(), errs.Invalid("already at root")
	}
	if s.prefix == "" {
		s.bucket, s.inBucket = "", false
		return s.stateLocked(), nil
	}
	s.prefix = parentPrefix(s.prefix)
	return s.stateLocked(), nil
}

// Reset returns to the root from any state.
func (s *Session) Reset() NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bucket, s.inBucket, s.prefix = "", false, ""
	return s.stateLocked()
}

// ListBuckets returns the buckets shown at the root.
func (s *Session) ListBuckets(ctx context.Context) ([]string, error) {
	return s.gateway.ListBuckets(ctx)
}

// Listing returns the folders and files directly under the current prefix,
// each file carrying a fresh download link.
func (s *Session) Listing(ctx context.Context) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inBucket {
		return nil, errs.Invalid("no bucket selected")
	}

	raw, err := s.gateway.List(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		Bucket:  s.bucket,
		Prefix:  s.prefix,
		Folders: make([]FolderEntry, 0, len(raw.FolderPrefixes)),
		Files:   make([]FileEntry, 0, len(raw.Objects)),
	}

	for _, p := range raw.FolderPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(p, s.prefix), storage.Delimiter)
		if name == "" {
			continue
		}
		listing.Folders = append(listing.Folders, FolderEntry{Name: name, Prefix: p})
	}

	for _, obj := range raw.Objects {
		// Folder markers, including the one for the current prefix itself.
		if strings.HasSuffix(obj.Key, storage.Delimiter) {
			continue
		}
		url, err := s.gateway.PresignGet(ctx, s.bucket, obj.Key, s.presignTTL)
		if err != nil {
			return nil, err
		}
		listing.Files = append(listing.Files, FileEntry{
			Name:         strings.TrimPrefix(obj.Key, s.prefix),
			Key:          obj.Key,
			Size:         obj.Size,
			SizeHuman:    humanize.Bytes(uint64(max(obj.Size, 0))),
			LastModified: obj.LastModified,
			DownloadURL:  url,
		})
	}

	return listing, nil
}

// Upload stores every file under the current prefix. Files are independent:
// a failure is reported in its outcome and does not stop the others. The
// returned error is only set when the batch could not start at all.
func (s *Session) Upload(ctx context.Context, files []UploadFile) ([]UploadOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inBucket {
		return nil, errs.Invalid("no bucket selected")
	}

	outcomes := make([]UploadOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(s.uploadConcurrency)

	bucket, prefix := s.bucket, s.prefix
	for i, f := range files {
		outcomes[i] = UploadOutcome{Name: f.Name, ObjectRef: ObjectRef{Bucket: bucket, Key: prefix + f.Name}}
		if f.Name == "" || strings.HasSuffix(f.Name, storage.Delimiter) {
			outcomes[i].Err = errs.Invalid("invalid file name %q", f.Name)
			continue
		}
		g.Go(func() error {
			outcomes[i].Err = s.gateway.Put(ctx, bucket, outcomes[i].Key, f.Body, f.Size)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

// CreateFolder writes the marker for folder name under the current prefix.
// Creating an existing folder again succeeds. The returned ref is set whenever
// the backend was called, even on failure.
func (s *Session) CreateFolder(ctx context.Context, name string) (ObjectRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return ObjectRef{}, errs.Invalid("folder name is empty")
	}
	if !s.inBucket {
		return ObjectRef{}, errs.Invalid("no bucket selected")
	}
	trimmed := strings.Trim(name, storage.Delimiter)
	if trimmed == "" {
		return ObjectRef{}, errs.Invalid("invalid folder name %q", name)
	}

	ref := ObjectRef{Bucket: s.bucket, Key: s.prefix + trimmed + storage.Delimiter}
	return ref, s.gateway.PutEmpty(ctx, ref.Bucket, ref.Key)
}

// DeleteObject removes the object name under the current prefix. Deleting an
// object that is already gone succeeds; a missing bucket is reported as NotFound.
func (s *Session) DeleteObject(ctx context.Context, name string) (ObjectRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inBucket {
		return ObjectRef{}, errs.Invalid("no bucket selected")
	}
	if name == "" {
		return ObjectRef{}, errs.Invalid("object name is empty")
	}

	ref := ObjectRef{Bucket: s.bucket, Key: s.prefix + name}
	if err := s.gateway.Delete(ctx, ref.Bucket, ref.Key); err != nil {
		return ref, err
	}
	return ref, nil
}

func parentPrefix(prefix string) string {
	segments := strings.Split(strings.TrimSuffix(prefix, storage.Delimiter), storage.Delimiter)
	segments = segments[:len(segments)-1]
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, storage.Delimiter) + storage.Delimiter
}
