package activity

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"bucket-browser/core/audit"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, audit.Recorder) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	rec, err := audit.NewRecorder(db)
	require.NoError(t, err)

	feature := NewFeature(rec, zap.NewNop())
	require.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, rec
}

func TestHandleRecent(t *testing.T) {
	app, rec := setupTestApp(t)
	for _, key := range []string{"a.txt", "b.txt", "c.txt"} {
		require.NoError(t, rec.Record(context.Background(), audit.Entry{User: "admin", Action: audit.ActionUpload, Bucket: "docs", ObjectKey: key, Outcome: audit.OutcomeOK}))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/audit?limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var entries []audit.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Len(t, entries, 2)
}

func TestHandleRecent_BadLimit(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/audit?limit=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestFeature_DisabledWithoutDatabase(t *testing.T) {
	feature := NewFeature(audit.NopRecorder{}, zap.NewNop())
	assert.False(t, feature.IsEnabled())
	assert.False(t, feature.Public())
}
