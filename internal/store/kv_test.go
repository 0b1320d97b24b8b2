package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestGormKV_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	kv := newTestGormKV(t)

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, expected ErrNotFound", err)
	}

	if err := kv.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := kv.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get() = %q, expected %q", got, "v2")
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, expected ErrNotFound", err)
	}
	if err := kv.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestSealedKV_RoundTripAndCiphertext(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKV()
	sealed, err := NewSealedKV(inner, "storage-secret")
	if err != nil {
		t.Fatalf("NewSealedKV() error = %v", err)
	}

	plain := []byte(`{"user":{"email":"ada@uni.edu"}}`)
	if err := sealed.Put(ctx, "user-storage", plain); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	raw, _ := inner.Get(ctx, "user-storage")
	if bytes.Contains(raw, []byte("ada@uni.edu")) {
		t.Error("inner store should not contain plaintext")
	}

	got, err := sealed.Get(ctx, "user-storage")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("Get() = %q, expected %q", got, plain)
	}
}

func TestSealedKV_WrongSecretOrTamper(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKV()
	a, _ := NewSealedKV(inner, "secret-a")
	b, _ := NewSealedKV(inner, "secret-b")

	_ = a.Put(ctx, "k", []byte("value"))
	if _, err := b.Get(ctx, "k"); !errors.Is(err, ErrSealBroken) {
		t.Errorf("Get() with wrong secret error = %v, expected ErrSealBroken", err)
	}

	_ = inner.Put(ctx, "short", []byte("abc"))
	if _, err := a.Get(ctx, "short"); !errors.Is(err, ErrSealBroken) {
		t.Errorf("Get() of short value error = %v, expected ErrSealBroken", err)
	}

	if _, err := NewSealedKV(inner, ""); err == nil {
		t.Error("empty secret should be rejected")
	}
}
