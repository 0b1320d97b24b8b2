package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"stage": "proposal"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("expected message 'ok', got %q", resp.Message)
	}
}

func TestNavigate_SetsRedirect(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Navigate(c, "/student-dashboard", nil)
	})

	resp := parseResponse(t, w)
	if resp.Redirect != "/student-dashboard" {
		t.Errorf("expected redirect /student-dashboard, got %q", resp.Redirect)
	}
}

func TestError_WithAppError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewBadRequest("validation failed"))
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %q", resp.Message)
	}
}

func TestError_NetworkBecomesBadGateway(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewNetworkError(errors.New("dial tcp: connection refused")))
	})

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
}

func TestError_WithGenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("something went wrong"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestFromUpstream_MessagePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"error field", 400, `{"error":"Project already exists"}`, "Project already exists"},
		{"detail field", 403, `{"detail":"Not allowed"}`, "Not allowed"},
		{"error wins over detail", 400, `{"detail":"d","error":"e"}`, "e"},
		{"blank error falls to detail", 400, `{"error":"  ","detail":"d"}`, "d"},
		{"non json", 502, `<html>bad gateway</html>`, "Bad Gateway"},
		{"empty body", 404, ``, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromUpstream(tt.status, []byte(tt.body))
			if err.Message != tt.expected {
				t.Errorf("Message = %q, expected %q", err.Message, tt.expected)
			}
			if err.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, expected %d", err.HTTPStatus, tt.status)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	network := NewNetworkError(errors.New("timeout"))
	unauthorized := FromUpstream(401, nil)
	notFound := FromUpstream(404, nil)
	validation := FromUpstream(422, []byte(`{"error":"bad"}`))
	server := FromUpstream(500, nil)

	if !IsNetwork(network) || IsNetwork(server) {
		t.Error("IsNetwork misclassified")
	}
	if !IsUnauthorized(unauthorized) || IsValidation(unauthorized) {
		t.Error("401 must be unauthorized, not validation")
	}
	if !IsNotFound(notFound) || IsValidation(notFound) {
		t.Error("404 must be not found, not validation")
	}
	if !IsValidation(validation) {
		t.Error("422 should be a validation failure")
	}
	if IsValidation(server) {
		t.Error("500 is not a validation failure")
	}

	wrapped := errors.Join(errors.New("create project"), notFound)
	if !IsNotFound(wrapped) {
		t.Error("classification should see through wrapping")
	}
}

func TestMessageOr(t *testing.T) {
	if got := MessageOr(FromUpstream(400, []byte(`{"error":"Title taken"}`)), "Project creation failed"); got != "Title taken" {
		t.Errorf("got %q, expected upstream message", got)
	}
	if got := MessageOr(FromUpstream(500, nil), "Project creation failed"); got != "Project creation failed" {
		t.Errorf("got %q, expected fallback", got)
	}
	if got := MessageOr(nil, "x"); got != "" {
		t.Errorf("got %q for nil error", got)
	}
}

func TestAppError_UnwrapsTransportError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewNetworkError(cause)
	if !errors.Is(err, cause) {
		t.Error("network error should unwrap to its cause")
	}
}
