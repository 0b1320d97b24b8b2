package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Response is the unified gateway response format.
type Response struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

// AppError is the structured error used on both sides of the HTTP boundary:
// gateway responses and failures returned by the UniTrack API.
type AppError struct {
	HTTPStatus int    // HTTP status code; 0 when no response was received
	Code       int    // Application-level error code
	Message    string // Human-readable error message
	Err        error  // underlying transport error, if any
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Code: 400, Message: msg}
}

// NewNetworkError wraps a failure where no response was received.
func NewNetworkError(err error) *AppError {
	return &AppError{Code: 0, Message: "Network error. Please check your connection.", Err: err}
}

// FromUpstream builds an AppError from a non-2xx UniTrack API response. The
// message is taken from the body's "error", "detail" or "message" field, in that
// order, falling back to the status text.
func FromUpstream(status int, body []byte) *AppError {
	msg := upstreamMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &AppError{HTTPStatus: status, Code: status, Message: msg}
}

func upstreamMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func statusOf(err error) (int, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus, true
	}
	return 0, false
}

// IsNetwork reports a transport failure with no response.
func IsNetwork(err error) bool {
	status, ok := statusOf(err)
	return ok && status == 0
}

func IsUnauthorized(err error) bool {
	status, ok := statusOf(err)
	return ok && status == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	status, ok := statusOf(err)
	return ok && status == http.StatusNotFound
}

// IsValidation reports a 4xx other than 401 and 404.
func IsValidation(err error) bool {
	status, ok := statusOf(err)
	return ok && status >= 400 && status < 500 &&
		status != http.StatusUnauthorized && status != http.StatusNotFound
}

// MessageOr returns the inline message for err, or fallback when err carries
// no usable message of its own.
func MessageOr(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Message != "" && appErr.Message != http.StatusText(appErr.HTTPStatus) {
			return appErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// --- Gin response helpers ---

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Navigate sends a 200 response telling the UI where to go next.
func Navigate(c *gin.Context, path string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:     0,
		Message:  "ok",
		Data:     data,
		Redirect: path,
	})
}

// Error sends an error response. An *AppError keeps its status and code, with
// a network failure reported as 502; anything else becomes a 500.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, Response{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    500,
		Message: err.Error(),
	})
}

// ErrorWithRedirect sends an error that also moves the UI, e.g. to the login page.
func ErrorWithRedirect(c *gin.Context, status int, msg, path string) {
	c.JSON(status, Response{Code: status, Message: msg, Redirect: path})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: 403, Message: msg})
}

func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, Response{Code: 409, Message: msg})
}
