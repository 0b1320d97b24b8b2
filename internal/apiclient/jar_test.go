package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/unitrack/portal/internal/store"
)

func TestJar_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	base := "http://api.unitrack.test"
	u, _ := url.Parse(base + "/api/login/")

	jar, err := NewJar(ctx, kv, base)
	if err != nil {
		t.Fatalf("NewJar() error = %v", err)
	}
	jar.SetCookies(u, []*http.Cookie{
		{Name: "access_token", Value: "a1", Path: "/", MaxAge: 600},
		{Name: "stale", Value: "x", Path: "/", Expires: time.Now().Add(-time.Hour)},
	})

	reloaded, err := NewJar(ctx, kv, base)
	if err != nil {
		t.Fatalf("NewJar() error = %v", err)
	}
	if v, ok := reloaded.Value("access_token"); !ok || v != "a1" {
		t.Errorf("expected persisted access_token a1, got (%q, %v)", v, ok)
	}
	if _, ok := reloaded.Value("stale"); ok {
		t.Error("expired cookies must not be restored")
	}
}

func TestJar_DeletedCookieIsForgotten(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	base := "http://api.unitrack.test"
	u, _ := url.Parse(base + "/")

	jar, _ := NewJar(ctx, kv, base)
	jar.SetCookies(u, []*http.Cookie{{Name: "refresh_token", Value: "r1", Path: "/"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "refresh_token", Value: "", Path: "/", MaxAge: -1}})

	reloaded, _ := NewJar(ctx, kv, base)
	if _, ok := reloaded.Value("refresh_token"); ok {
		t.Error("a cookie deleted by the server must not come back")
	}
}

func TestJar_Reset(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	base := "http://api.unitrack.test"
	u, _ := url.Parse(base + "/")

	jar, _ := NewJar(ctx, kv, base)
	jar.SetCookies(u, []*http.Cookie{{Name: "access_token", Value: "a1", Path: "/"}})
	if err := jar.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, ok := jar.Value("access_token"); ok {
		t.Error("Reset must drop in-memory cookies")
	}
	if _, err := kv.Get(ctx, CookieStorageKey); err != store.ErrNotFound {
		t.Errorf("Reset must delete stored cookies, got %v", err)
	}
}

func TestJar_SameNameOnDifferentPaths(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	base := "http://api.unitrack.test"
	login, _ := url.Parse(base + "/api/login/")
	refresh, _ := url.Parse(base + RefreshPath)
	root, _ := url.Parse(base + "/")

	jar, _ := NewJar(ctx, kv, base)
	jar.SetCookies(login, []*http.Cookie{
		{Name: "refresh_token", Value: "site", Path: "/"},
		{Name: "refresh_token", Value: "scoped", Path: RefreshPath},
		{Name: "csrftoken", Value: "c1"},
	})

	reloaded, _ := NewJar(ctx, kv, base)
	if got := cookieValues(reloaded.Cookies(refresh), "refresh_token"); len(got) != 2 || got[0] != "scoped" || got[1] != "site" {
		t.Errorf("got refresh_token values %v on %s, expected [scoped site]", got, RefreshPath)
	}
	if got := cookieValues(reloaded.Cookies(root), "refresh_token"); len(got) != 1 || got[0] != "site" {
		t.Errorf("got refresh_token values %v on /, expected [site]", got)
	}
	if got := cookieValues(reloaded.Cookies(login), "csrftoken"); len(got) != 1 || got[0] != "c1" {
		t.Errorf("got csrftoken values %v on /api/login/, expected [c1]", got)
	}

	reloaded.SetCookies(refresh, []*http.Cookie{{Name: "refresh_token", Path: RefreshPath, MaxAge: -1}})
	again, _ := NewJar(ctx, kv, base)
	if got := cookieValues(again.Cookies(refresh), "refresh_token"); len(got) != 1 || got[0] != "site" {
		t.Errorf("got refresh_token values %v after deleting the scoped one, expected [site]", got)
	}
}

func cookieValues(cookies []*http.Cookie, name string) []string {
	var values []string
	for _, c := range cookies {
		if c.Name == name {
			values = append(values, c.Value)
		}
	}
	return values
}
