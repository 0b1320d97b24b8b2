package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
)

// CookieStorageKey is where the jar keeps the API's cookies.
const CookieStorageKey = "cookie-jar"

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

// key identifies a cookie the way the browser does: two cookies with the
// same name on different paths or domains are different cookies.
func (sc storedCookie) key() string {
	return sc.Name + "|" + sc.Domain + "|" + sc.Path
}

// cookiePath resolves a cookie's Path attribute against the URL that set
// it, using the default-path rule when the attribute is missing.
func cookiePath(u *url.URL, path string) string {
	if path != "" && path[0] == '/' {
		return path
	}
	dir := u.Path
	i := strings.LastIndex(dir, "/")
	if i <= 0 {
		return "/"
	}
	return dir[:i]
}

// Jar is a cookie jar for the API host whose cookies survive restarts when
// backed by a KV.
type Jar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	kv      store.KV
	base    *url.URL
	cookies map[string]storedCookie
}

// NewJar loads previously stored cookies for baseURL. kv may be nil.
func NewJar(ctx context.Context, kv store.KV, baseURL string) (*Jar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{inner: inner, kv: kv, base: base, cookies: make(map[string]storedCookie)}
	if kv == nil {
		return j, nil
	}

	data, err := kv.Get(ctx, CookieStorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return j, nil
	}
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable stored cookies")
		return j, nil
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn().Err(err).Msg("ignoring malformed stored cookies")
		return j, nil
	}

	now := time.Now()
	restored := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		j.cookies[sc.key()] = sc
		restored = append(restored, sc.toHTTP())
	}
	j.inner.SetCookies(base, restored)
	return j, nil
}

func (sc storedCookie) toHTTP() *http.Cookie {
	return &http.Cookie{
		Name:     sc.Name,
		Value:    sc.Value,
		Path:     sc.Path,
		Domain:   sc.Domain,
		Expires:  sc.Expires,
		Secure:   sc.Secure,
		HttpOnly: sc.HttpOnly,
	}
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
	if u.Host != j.base.Host {
		return
	}

	now := time.Now()
	for _, c := range cookies {
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     cookiePath(u, c.Path),
			Domain:   strings.ToLower(strings.TrimPrefix(c.Domain, ".")),
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge < 0 || (!expires.IsZero() && expires.Before(now)) {
			delete(j.cookies, sc.key())
			continue
		}
		j.cookies[sc.key()] = sc
	}
	j.persist(context.Background())
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Value returns the current value of the named cookie for the API host.
func (j *Jar) Value(name string) (string, bool) {
	for _, c := range j.Cookies(j.base) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Reset drops every cookie, in memory and in storage.
func (j *Jar) Reset(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.inner = inner
	j.cookies = make(map[string]storedCookie)
	if j.kv == nil {
		return nil
	}
	return j.kv.Delete(ctx, CookieStorageKey)
}

// persist must be called with j.mu held. Failures only cost persistence, so
// they are logged rather than returned.
func (j *Jar) persist(ctx context.Context) {
	if j.kv == nil {
		return
	}
	stored := make([]storedCookie, 0, len(j.cookies))
	for _, sc := range j.cookies {
		stored = append(stored, sc)
	}
	data, err := json.Marshal(stored)
	if err == nil {
		err = j.kv.Put(ctx, CookieStorageKey, data)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to persist cookies")
	}
}
