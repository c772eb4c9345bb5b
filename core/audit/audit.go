package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	ActionUpload       = "upload"
	ActionCreateFolder = "create_folder"
	ActionDelete       = "delete"

	OutcomeOK = "ok"
)

// Entry is one recorded write operation against the object store.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	User      string    `gorm:"size:128;index" json:"user"`
	Action    string    `gorm:"size:32" json:"action"`
	Bucket    string    `gorm:"size:255" json:"bucket"`
	ObjectKey string    `gorm:"column:object_key;size:1024" json:"key"`
	Outcome   string    `gorm:"size:64" json:"outcome"`
	Error     string    `gorm:"size:1024" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the GORM default.
func (Entry) TableName() string {
	return "audit_entries"
}

// Recorder persists and lists audit entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// NewRecorder returns a GORM-backed recorder, migrating the table first.
// A nil db yields a recorder that keeps nothing.
func NewRecorder(db *gorm.DB) (Recorder, error) {
	if db == nil {
		return NopRecorder{}, nil
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit table: %w", err)
	}
	return &gormRecorder{db: db}, nil
}

type gormRecorder struct {
	db *gorm.DB
}

func (r *gormRecorder) Record(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (r *gormRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var entries []Entry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// NopRecorder discards entries. Used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) error { return nil }

func (NopRecorder) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }
