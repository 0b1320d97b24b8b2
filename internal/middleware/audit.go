package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/pkg/logger"
)

const auditBodyLimit = 2000

var sensitiveKeys = []string{"password", "token", "access_token", "refresh_token", "secret"}

// Audit logs every mutating request with the acting user, the route and a
// masked snippet of the JSON body. Multipart uploads are not captured.
func Audit(actor func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		var snippet string
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			data, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(data))
			snippet = maskSensitiveFields(string(data))
			if len(snippet) > auditBodyLimit {
				snippet = snippet[:auditBodyLimit] + "...[truncated]"
			}
		}

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 400 {
			event = logger.Warn()
		}
		event.
			Str("actor", actor()).
			Str("action", auditAction(c.FullPath())).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("request_id", GetRequestID(c)).
			Str("body", snippet).
			Msg("audit")
	}
}

// auditAction turns a route pattern into a short label, e.g.
// "/api/projects/:id/approve" becomes "projects.approve".
func auditAction(fullPath string) string {
	path := strings.TrimPrefix(fullPath, "/api/")
	if path == "" {
		return "unknown"
	}
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, ".")
}

// maskSensitiveFields replaces the string value of every sensitive key.
func maskSensitiveFields(body string) string {
	for _, key := range sensitiveKeys {
		body = maskJSONValue(body, key)
	}
	return body
}

func maskJSONValue(body, key string) string {
	needle := "\"" + key + "\""
	from := 0
	for {
		idx := indexFold(body[from:], needle)
		if idx == -1 {
			return body
		}
		pos := from + idx + len(needle)
		for pos < len(body) && (body[pos] == ' ' || body[pos] == '\t') {
			pos++
		}
		if pos >= len(body) || body[pos] != ':' {
			from = pos
			continue
		}
		pos++
		for pos < len(body) && (body[pos] == ' ' || body[pos] == '\t') {
			pos++
		}
		if pos >= len(body) || body[pos] != '"' {
			from = pos
			continue
		}
		end := closingQuote(body, pos+1)
		if end == -1 {
			return body[:pos+1] + "***"
		}
		body = body[:pos+1] + "***" + body[end:]
		from = pos + 1 + len("***") + 1
	}
}

// indexFold is a case-insensitive strings.Index whose result is a byte
// offset into s itself. Lowercasing s first would shift offsets for runes
// whose lower case has a different encoded length.
func indexFold(s, needle string) int {
	for i := 0; i+len(needle) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// closingQuote returns the offset of the quote ending the JSON string that
// starts at from, honouring backslash escapes, or -1.
func closingQuote(s string, from int) int {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
