package browser

import (
	"context"
	"strings"
	"testing"
	"time"

	"bucket-browser/core/errs"
	"bucket-browser/core/storage"
	"bucket-browser/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSession(opts ...Option) (*Session, *mocks.Gateway) {
	gw := new(mocks.Gateway)
	return NewSession(gw, opts...), gw
}

func TestSession_StartsAtRoot(t *testing.T) {
	s, _ := newTestSession()

	state := s.State()
	assert.False(t, state.InBucket)
	assert.Equal(t, "/", state.DisplayPath)
	assert.False(t, state.CanGoBack())
}

func TestSession_EnterBucket(t *testing.T) {
	s, _ := newTestSession()

	state, err := s.EnterBucket("assets")
	require.NoError(t, err)
	assert.Equal(t, NavigationState{Bucket: "assets", InBucket: true, Prefix: "", DisplayPath: "/assets/"}, state)
	assert.True(t, state.CanGoBack())

	// Switching buckets from inside a folder lands at the new bucket's root.
	_, err = s.EnterFolder("img")
	require.NoError(t, err)
	state, err = s.EnterBucket("docs")
	require.NoError(t, err)
	assert.Equal(t, "/docs/", state.DisplayPath)

	_, err = s.EnterBucket(" ")
	assert.True(t, errs.IsInvalidArgument(err))
	assert.Equal(t, "/docs/", s.State().DisplayPath)
}

func TestSession_EnterFolder(t *testing.T) {
	s, _ := newTestSession()
	_, _ = s.EnterBucket("docs")

	state, err := s.EnterFolder("reports")
	require.NoError(t, err)
	assert.Equal(t, "reports/", state.Prefix)
	assert.Equal(t, "/docs/reports/", state.DisplayPath)

	state, err = s.EnterFolder("2023")
	require.NoError(t, err)
	assert.Equal(t, "/docs/reports/2023/", state.DisplayPath)
}

func TestSession_EnterFolderRejects(t *testing.T) {
	s, _ := newTestSession()

	_, err := s.EnterFolder("reports")
	assert.True(t, errs.IsInvalidArgument(err), "at root")

	_, _ = s.EnterBucket("docs")
	for _, name := range []string{"", "a/b", "/"} {
		_, err := s.EnterFolder(name)
		assert.True(t, errs.IsInvalidArgument(err), name)
	}
	assert.Equal(t, "/docs/", s.State().DisplayPath)
}

func TestSession_GoUpReversesEnterFolder(t *testing.T) {
	s, _ := newTestSession()
	_, _ = s.EnterBucket("docs")
	_, _ = s.EnterFolder("base")
	start := s.State()

	path := []string{"a", "b", "c"}
	for _, name := range path {
		_, err := s.EnterFolder(name)
		require.NoError(t, err)
	}
	assert.Equal(t, "base/a/b/c/", s.State().Prefix)

	for range path {
		_, err := s.GoUp()
		require.NoError(t, err)
	}
	assert.Equal(t, start, s.State())
}

func TestSession_GoUpFromBucketRootLeavesBucket(t *testing.T) {
	s, _ := newTestSession()
	_, _ = s.EnterBucket("docs")
	_, _ = s.EnterFolder("reports")

	state, err := s.GoUp()
	require.NoError(t, err)
	assert.Equal(t, NavigationState{Bucket: "docs", InBucket: true, DisplayPath: "/docs/"}, state)

	state, err = s.GoUp()
	require.NoError(t, err)
	assert.Equal(t, NavigationState{DisplayPath: "/"}, state)

	_, err = s.GoUp()
	assert.True(t, errs.IsInvalidArgument(err))
	assert.Equal(t, "/", s.State().DisplayPath)
}

func TestSession_Reset(t *testing.T) {
	s, _ := newTestSession()
	_, _ = s.EnterBucket("docs")
	_, _ = s.EnterFolder("reports")

	assert.Equal(t, NavigationState{DisplayPath: "/"}, s.Reset())
	assert.Equal(t, NavigationState{DisplayPath: "/"}, s.Reset())
}

func TestNewSession_Options(t *testing.T) {
	s, _ := newTestSession()
	assert.Equal(t, defaultUploadConcurrency, s.uploadConcurrency)
	assert.Equal(t, storage.DefaultPresignTTL, s.presignTTL)

	s, _ = newTestSession(WithUploadConcurrency(0), WithPresignTTL(0))
	assert.Equal(t, defaultUploadConcurrency, s.uploadConcurrency)
	assert.Equal(t, storage.DefaultPresignTTL, s.presignTTL)

	s, _ = newTestSession(WithUploadConcurrency(8), WithPresignTTL(time.Minute))
	assert.Equal(t, 8, s.uploadConcurrency)
	assert.Equal(t, time.Minute, s.presignTTL)
}

func TestSession_Listing(t *testing.T) {
	s, gw := newTestSession(WithPresignTTL(time.Minute))
	_, _ = s.EnterBucket("docs")
	_, _ = s.EnterFolder("reports")
	modified := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	gw.On("List", mock.Anything, "docs", "reports/").Return(&storage.Listing{
		FolderPrefixes: []string{"reports/2023/", "reports/2024/"},
		Objects: []storage.ObjectRecord{
			{Key: "reports/"},
			{Key: "reports/q1.pdf", Size: 2048, LastModified: modified},
		},
	}, nil)
	gw.On("PresignGet", mock.Anything, "docs", "reports/q1.pdf", time.Minute).Return("https://signed/q1", nil)

	listing, err := s.Listing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []FolderEntry{
		{Name: "2023", Prefix: "reports/2023/"},
		{Name: "2024", Prefix: "reports/2024/"},
	}, listing.Folders)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, FileEntry{
		Name:         "q1.pdf",
		Key:          "reports/q1.pdf",
		Size:         2048,
		SizeHuman:    "2.0 kB",
		LastModified: modified,
		DownloadURL:  "https://signed/q1",
	}, listing.Files[0])

	gw.AssertNotCalled(t, "PresignGet", mock.Anything, "docs", "reports/", mock.Anything)
}

func TestSession_ListingErrors(t *testing.T) {
	s, gw := newTestSession()

	_, err := s.Listing(context.Background())
	assert.True(t, errs.IsInvalidArgument(err))
	gw.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)

	_, _ = s.EnterBucket("ghost")
	gw.On("List", mock.Anything, "ghost", "").Return(nil, errs.New(errs.KindNotFound, "no such bucket"))

	_, err = s.Listing(context.Background())
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, "/ghost/", s.State().DisplayPath)
}

func TestSession_UploadIsBestEffort(t *testing.T) {
	s, gw := newTestSession(WithUploadConcurrency(3))
	_, _ = s.EnterBucket("docs")
	_, _ = s.EnterFolder("reports")

	gw.On("Put", mock.Anything, "docs", "reports/a.txt", mock.Anything, int64(1)).Return(nil)
	gw.On("Put", mock.Anything, "docs", "reports/b.txt", mock.Anything, int64(1)).
		Return(errs.New(errs.KindTransient, "connection reset"))
	gw.On("Put", mock.Anything, "docs", "reports/c.txt", mock.Anything, int64(1)).Return(nil)

	outcomes, err := s.Upload(context.Background(), []UploadFile{
		{Name: "a.txt", Body: strings.NewReader("a"), Size: 1},
		{Name: "b.txt", Body: strings.NewReader("b"), Size: 1},
		{Name: "c.txt", Body: strings.NewReader("c"), Size: 1},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	var failed []int
	for i, o := range outcomes {
		if !o.OK() {
			failed = append(failed, i)
		}
	}
	assert.Equal(t, []int{1}, failed)
	assert.True(t, errs.IsTransient(outcomes[1].Err))
	assert.Equal(t, "reports/a.txt", outcomes[0].Key)
	assert.Equal(t, "reports/c.txt", outcomes[2].Key)
	gw.AssertNumberOfCalls(t, "Put", 3)
}

func TestSession_UploadRejects(t *testing.T) {
	s, gw := newTestSession()

	_, err := s.Upload(context.Background(), []UploadFile{{Name: "a.txt", Body: strings.NewReader("a")}})
	assert.True(t, errs.IsInvalidArgument(err))

	_, _ = s.EnterBucket("docs")
	outcomes, err := s.Upload(context.Background(), []UploadFile{{Name: "", Body: strings.NewReader("")}})
	require.NoError(t, err)
	assert.True(t, errs.IsInvalidArgument(outcomes[0].Err))
	gw.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_CreateFolder(t *testing.T) {
	s, gw := newTestSession()
	_, _ = s.EnterBucket("docs")
	_, _ = s.EnterFolder("reports")

	gw.On("PutEmpty", mock.Anything, "docs", "reports/2025/").Return(nil)

	ref, err := s.CreateFolder(context.Background(), "/2025/")
	require.NoError(t, err)
	assert.Equal(t, ObjectRef{Bucket: "docs", Key: "reports/2025/"}, ref)

	// Creating it again is idempotent.
	_, err = s.CreateFolder(context.Background(), "2025")
	require.NoError(t, err)
	assert.Equal(t, "/docs/reports/", s.State().DisplayPath)
}

func TestSession_CreateFolderWhitespaceNeverHitsGateway(t *testing.T) {
	s, gw := newTestSession()
	_, _ = s.EnterBucket("docs")

	for _, name := range []string{"", "  ", "\t", "//"} {
		_, err := s.CreateFolder(context.Background(), name)
		assert.True(t, errs.IsInvalidArgument(err), "%q", name)
	}
	gw.AssertNotCalled(t, "PutEmpty", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_CreateFolderConflict(t *testing.T) {
	s, gw := newTestSession()
	_, _ = s.EnterBucket("docs")
	gw.On("PutEmpty", mock.Anything, "docs", "locked/").Return(errs.New(errs.KindAlreadyExists, "conflict"))

	ref, err := s.CreateFolder(context.Background(), "locked")
	assert.True(t, errs.IsAlreadyExists(err))
	assert.Equal(t, "locked/", ref.Key)
}

func TestSession_DeleteMissingObjectSucceeds(t *testing.T) {
	s, gw := newTestSession()
	_, _ = s.EnterBucket("docs")
	gw.On("Delete", mock.Anything, "docs", "missing.txt").Return(nil)

	ref, err := s.DeleteObject(context.Background(), "missing.txt")
	require.NoError(t, err)
	assert.Equal(t, ObjectRef{Bucket: "docs", Key: "missing.txt"}, ref)
}

func TestSession_DeleteInMissingBucketFails(t *testing.T) {
	s, gw := newTestSession()
	_, _ = s.EnterBucket("ghost")
	gw.On("Delete", mock.Anything, "ghost", "a.txt").Return(errs.New(errs.KindNotFound, "no such bucket"))

	ref, err := s.DeleteObject(context.Background(), "a.txt")
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, ObjectRef{Bucket: "ghost", Key: "a.txt"}, ref)
}

func TestSession_DeleteObjectErrors(t *testing.T) {
	s, gw := newTestSession()

	_, err := s.DeleteObject(context.Background(), "a.txt")
	assert.True(t, errs.IsInvalidArgument(err))

	_, _ = s.EnterBucket("docs")
	_, err = s.DeleteObject(context.Background(), "")
	assert.True(t, errs.IsInvalidArgument(err))

	gw.On("Delete", mock.Anything, "docs", "secret.txt").Return(errs.New(errs.KindAccessDenied, "denied"))
	_, err = s.DeleteObject(context.Background(), "secret.txt")
	assert.True(t, errs.IsAccessDenied(err))
}

func TestParentPrefix(t *testing.T) {
	assert.Equal(t, "", parentPrefix("a/"))
	assert.Equal(t, "a/", parentPrefix("a/b/"))
	assert.Equal(t, "a/b/", parentPrefix("a/b/c/"))
}
