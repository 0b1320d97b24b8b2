package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrSealBroken = errors.New("store: sealed value cannot be opened")

// SealedKV encrypts values with NaCl secretbox before handing them to the
// wrapped KV. The key is derived from the configured storage secret.
type SealedKV struct {
	inner KV
	key   [32]byte
}

func NewSealedKV(inner KV, secret string) (*SealedKV, error) {
	if secret == "" {
		return nil, errors.New("store: empty storage secret")
	}
	s := &SealedKV{inner: inner}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("unitrack client storage v1"))
	if _, err := io.ReadFull(r, s.key[:]); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SealedKV) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrSealBroken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrSealBroken
	}
	return plain, nil
}

func (s *SealedKV) Put(ctx context.Context, key string, value []byte) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}
	sealed := secretbox.Seal(nonce[:], value, &nonce, &s.key)
	return s.inner.Put(ctx, key, sealed)
}

func (s *SealedKV) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
