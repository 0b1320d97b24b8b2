package apiclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/unitrack/portal/pkg/logger"
	"github.com/unitrack/portal/pkg/response"
	"golang.org/x/sync/singleflight"
)

// RefreshPath renews the access cookie from the refresh cookie.
const RefreshPath = "/api/refresh/"

var ErrSessionExpired = errors.New("session expired")

// attempt says whether an exchange is the original call or its one replay.
type attempt int

const (
	attemptFirst attempt = iota
	attemptReplay
)

type action int

const (
	actionReturn action = iota
	actionRefresh
)

// decide is the whole refresh policy. Only a 401 on a first attempt of
// anything but the refresh call itself triggers a refresh, so every chain
// ends after at most one refresh and one replay.
func decide(status int, isRefreshCall bool, at attempt) action {
	switch {
	case status != http.StatusUnauthorized:
		return actionReturn
	case isRefreshCall:
		return actionReturn
	case at == attemptReplay:
		return actionReturn
	default:
		return actionRefresh
	}
}

// refresher shares one in-flight refresh between concurrent 401s and runs
// the expiry hook once per failed refresh. The shared call is detached from
// any single caller's context: a caller giving up stops waiting for it but
// neither cancels it nor counts as a failed refresh.
type refresher struct {
	group     singleflight.Group
	timeout   time.Duration
	call      func(ctx context.Context) error
	onExpired func(ctx context.Context)
}

func newRefresher(timeout time.Duration, call func(ctx context.Context) error, onExpired func(ctx context.Context)) *refresher {
	return &refresher{timeout: timeout, call: call, onExpired: onExpired}
}

// refresh returns nil once the session is renewed, a network error wrapping
// ctx.Err() when the caller stopped waiting, and a session-expired error
// when the renewal itself was refused.
func (r *refresher) refresh(ctx context.Context) error {
	ch := r.group.DoChan("refresh", func() (interface{}, error) {
		detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		err := r.call(detached)
		if err != nil {
			logger.Warn().Err(err).Msg("refresh token expired, redirecting to login")
			if r.onExpired != nil {
				r.onExpired(detached)
			}
		}
		return nil, err
	})

	select {
	case <-ctx.Done():
		return response.NewNetworkError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return sessionExpired(res.Err)
		}
		return nil
	}
}

// callRefresh goes straight to roundTrip: the refresh call never passes
// through the refresh policy.
func (c *Client) callRefresh(ctx context.Context) error {
	res, err := c.roundTrip(ctx, request{
		method:      http.MethodPost,
		path:        RefreshPath,
		body:        []byte("{}"),
		contentType: "application/json",
	})
	if err != nil {
		return err
	}
	if res.status < 200 || res.status >= 300 {
		return response.FromUpstream(res.status, res.body)
	}
	logger.Debug().Msg("access token refreshed")
	return nil
}

func sessionExpired(cause error) error {
	return &response.AppError{
		HTTPStatus: http.StatusUnauthorized,
		Code:       http.StatusUnauthorized,
		Message:    "Your session has expired. Please log in again.",
		Err:        errors.Join(ErrSessionExpired, cause),
	}
}
