package browser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bucket-browser/core/audit"
	"bucket-browser/core/errs"
	"bucket-browser/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, entry audit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRecorder) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]audit.Entry)
	return entries, args.Error(1)
}

func setupService(t *testing.T) (*Service, *mocks.Gateway, *mockRecorder) {
	gw := new(mocks.Gateway)
	rec := new(mockRecorder)
	reg := NewRegistry(func() *Session { return NewSession(gw) }, time.Hour)
	svc := NewService(reg, rec, zap.NewNop())

	_, err := svc.Session("sid").EnterBucket("docs")
	require.NoError(t, err)
	return svc, gw, rec
}

func auditEntry(action, key, outcome string) any {
	return mock.MatchedBy(func(e audit.Entry) bool {
		return e.User == "alice" && e.Action == action && e.Bucket == "docs" && e.ObjectKey == key && e.Outcome == outcome
	})
}

func TestService_UploadRecordsEveryFile(t *testing.T) {
	svc, gw, rec := setupService(t)

	gw.On("Put", mock.Anything, "docs", "a.txt", mock.Anything, int64(1)).Return(nil)
	gw.On("Put", mock.Anything, "docs", "b.txt", mock.Anything, int64(1)).Return(errs.New(errs.KindAccessDenied, "denied"))
	rec.On("Record", mock.Anything, auditEntry(audit.ActionUpload, "a.txt", audit.OutcomeOK)).Return(nil).Once()
	rec.On("Record", mock.Anything, auditEntry(audit.ActionUpload, "b.txt", "access_denied")).Return(nil).Once()

	outcomes, err := svc.Upload(context.Background(), "alice", "sid", []UploadFile{
		{Name: "a.txt", Body: strings.NewReader("a"), Size: 1},
		{Name: "b.txt", Body: strings.NewReader("b"), Size: 1},
	})
	require.NoError(t, err)
	assert.True(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
	rec.AssertExpectations(t)
}

func TestService_UploadAtRootRecordsNothing(t *testing.T) {
	svc, _, rec := setupService(t)
	svc.Session("sid").Reset()

	_, err := svc.Upload(context.Background(), "alice", "sid", []UploadFile{{Name: "a.txt", Body: strings.NewReader("a")}})
	assert.True(t, errs.IsInvalidArgument(err))
	rec.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestService_CreateFolder(t *testing.T) {
	svc, gw, rec := setupService(t)
	gw.On("PutEmpty", mock.Anything, "docs", "new/").Return(nil)
	rec.On("Record", mock.Anything, auditEntry(audit.ActionCreateFolder, "new/", audit.OutcomeOK)).Return(nil)

	ref, err := svc.CreateFolder(context.Background(), "alice", "sid", "new")
	require.NoError(t, err)
	assert.Equal(t, "new/", ref.Key)

	_, err = svc.CreateFolder(context.Background(), "alice", "sid", "   ")
	assert.True(t, errs.IsInvalidArgument(err))
	rec.AssertNumberOfCalls(t, "Record", 1)
}

func TestService_DeleteObjectKeepsGoingWhenAuditFails(t *testing.T) {
	svc, gw, rec := setupService(t)
	gw.On("Delete", mock.Anything, "docs", "a.txt").Return(nil)
	rec.On("Record", mock.Anything, auditEntry(audit.ActionDelete, "a.txt", audit.OutcomeOK)).Return(errors.New("db down"))

	ref, err := svc.DeleteObject(context.Background(), "alice", "sid", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, ObjectRef{Bucket: "docs", Key: "a.txt"}, ref)
	rec.AssertExpectations(t)
}

func TestService_EndSession(t *testing.T) {
	svc, _, _ := setupService(t)

	svc.EndSession("sid")
	assert.Equal(t, "/", svc.Session("sid").State().DisplayPath)
}
