package browser

import (
	"context"

	"bucket-browser/core/audit"
	"bucket-browser/core/errs"

	"go.uber.org/zap"
)

// Service binds browsing sessions to authenticated users and records every
// write operation in the audit trail.
type Service struct {
	registry *Registry
	recorder audit.Recorder
	logger   *zap.Logger
}

// NewService creates a new browser service.
func NewService(registry *Registry, recorder audit.Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Service{registry: registry, recorder: recorder, logger: logger}
}

// Session returns the browsing session bound to sessionID.
func (s *Service) Session(sessionID string) *Session {
	return s.registry.Get(sessionID)
}

// EndSession discards the browsing session bound to sessionID.
func (s *Service) EndSession(sessionID string) {
	s.registry.Drop(sessionID)
}

// Upload stores files in the session's current folder.
func (s *Service) Upload(ctx context.Context, user, sessionID string, files []UploadFile) ([]UploadOutcome, error) {
	outcomes, err := s.Session(sessionID).Upload(ctx, files)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
		s.record(ctx, user, audit.ActionUpload, o.ObjectRef, o.Err)
	}
	s.logger.Info("Upload batch finished",
		zap.String("user", user),
		zap.Int("files", len(outcomes)),
		zap.Int("failed", failed))

	return outcomes, nil
}

// CreateFolder creates a folder in the session's current folder.
func (s *Service) CreateFolder(ctx context.Context, user, sessionID, name string) (ObjectRef, error) {
	ref, err := s.Session(sessionID).CreateFolder(ctx, name)
	if ref.Key != "" {
		s.record(ctx, user, audit.ActionCreateFolder, ref, err)
	}
	return ref, err
}

// DeleteObject deletes an object from the session's current folder.
func (s *Service) DeleteObject(ctx context.Context, user, sessionID, name string) (ObjectRef, error) {
	ref, err := s.Session(sessionID).DeleteObject(ctx, name)
	if ref.Key != "" {
		s.record(ctx, user, audit.ActionDelete, ref, err)
	}
	return ref, err
}

// Recent returns the latest audit entries.
func (s *Service) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	return s.recorder.Recent(ctx, limit)
}

func (s *Service) record(ctx context.Context, user, action string, ref ObjectRef, opErr error) {
	entry := audit.Entry{
		User:      user,
		Action:    action,
		Bucket:    ref.Bucket,
		ObjectKey: ref.Key,
		Outcome:   audit.OutcomeOK,
	}
	if opErr != nil {
		entry.Outcome = errs.KindOf(opErr).String()
		entry.Error = opErr.Error()
	}

	// The write already happened; a lost audit row must not fail the request.
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("Failed to record audit entry",
			zap.String("action", action),
			zap.String("key", ref.Key),
			zap.Error(err))
	}
}
