package store

import (
	"fmt"

	"github.com/unitrack/portal/internal/config"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/pkg/logger"
	"gorm.io/gorm"
)

// Open connects the configured database and returns the KV the portal
// should persist through: sealed when a secret is configured. The plain
// GormKV is returned too for health checks.
func Open(cfg *config.StorageConfig) (KV, *GormKV, *gorm.DB, error) {
	db, err := models.OpenDB(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	plain := NewGormKV(db)
	if cfg.Secret == "" {
		logger.Warn().Msg("STORAGE_SECRET is not set; the session is stored unsealed")
		return plain, plain, db, nil
	}
	sealed, err := NewSealedKV(plain, cfg.Secret)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("seal storage: %w", err)
	}
	return sealed, plain, db, nil
}
