// Package handlers exposes one portal instance over HTTP for a browser UI.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
	"github.com/unitrack/portal/pkg/response"
)

// Pinger reports whether the storage behind the portal is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	portal  *services.Portal
	storage Pinger
}

// New serves p. storage may be nil when the portal keeps everything in memory.
func New(p *services.Portal, storage Pinger) *Handler {
	return &Handler{portal: p, storage: storage}
}

// fail maps domain errors onto gateway responses.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *services.ValidationError
	var denied *gate.DeniedError

	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		response.ErrorWithRedirect(c, http.StatusUnauthorized, response.MessageOr(err, "Your session has expired. Please log in again."), services.PathLogin)
	case errors.As(err, &denied):
		response.Forbidden(c, "Guest mode is read-only.")
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, response.Response{Code: http.StatusBadRequest, Message: verr.Error(), Data: verr.Fields})
	case errors.Is(err, services.ErrUnknownRole):
		response.Forbidden(c, err.Error())
	case errors.Is(err, store.ErrNoProject),
		errors.Is(err, services.ErrNotRejected),
		errors.Is(err, services.ErrActionInProgress):
		response.Conflict(c, err.Error())
	default:
		var appErr *response.AppError
		if !errors.As(err, &appErr) {
			logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("gateway request failed")
		}
		response.Error(c, err)
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		response.BadRequest(c, "invalid request body")
		return false
	}
	return true
}
