package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/unitrack/portal/internal/config"
)

func TestOpen_SealsOnlyWithSecret(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	kv, plain, _, err := Open(&config.StorageConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := kv.(*GormKV); !ok {
		t.Errorf("expected a plain GormKV without a secret, got %T", kv)
	}
	if err := plain.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	kv, plain, _, err = Open(&config.StorageConfig{Driver: "sqlite", DSN: dsn, Secret: "s3cret"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := kv.(*SealedKV); !ok {
		t.Fatalf("expected a SealedKV with a secret, got %T", kv)
	}
	if err := kv.Put(ctx, UserStorageKey, []byte(`{"is_guest":false}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	raw, err := plain.Get(ctx, UserStorageKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(raw) == `{"is_guest":false}` {
		t.Error("the stored value should be sealed")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, _, _, err := Open(&config.StorageConfig{Driver: "oracle"}); err == nil {
		t.Error("expected an error for an unsupported driver")
	}
}
