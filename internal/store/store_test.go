package store

import (
	"path/filepath"
	"testing"

	"github.com/unitrack/portal/internal/config"
	"github.com/unitrack/portal/internal/models"
)

func newTestGormKV(t *testing.T) *GormKV {
	t.Helper()
	db, err := models.OpenDB(&config.StorageConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "client.db"),
	})
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	return NewGormKV(db)
}
