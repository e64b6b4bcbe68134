package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mlazarev/tracknest/internal/services"
)

// Audit records write operations (POST/PUT/PATCH/DELETE) as activity
// events. Each request gets a generated ID that is echoed back in the
// X-Request-ID header so an entry can be matched to a response.
func Audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "PATCH" && method != "DELETE" {
			c.Next()
			return
		}

		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		// After handler: hand the event to the queue.
		queue := services.GetEventQueue()
		if queue == nil {
			return
		}

		userID := GetUserID(c)
		var uid *uint
		if userID > 0 {
			uid = &userID
		}

		module, action := parseRouteInfo(c.FullPath(), method)
		status := c.Writer.Status()

		queue.Enqueue(&services.ActivityEvent{
			RequestID: requestID,
			UserID:    uid,
			Module:    module,
			Action:    action,
			Message:   formatAuditMessage(GetUsername(c), method, c.Request.URL.Path, status),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Status:    status,
		})
	}
}

// parseRouteInfo extracts module and action from a Gin route pattern.
// e.g. "/api/projects/:id" + "PUT" → module="projects", action="update"
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")

	parts := strings.SplitN(path, "/", 2)
	module = parts[0]
	if module == "" {
		module = "unknown"
	}

	switch method {
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}

	return module, action
}

// formatAuditMessage creates a human-readable audit message.
func formatAuditMessage(username, method, path string, status int) string {
	who := username
	if who == "" {
		who = "anonymous"
	}
	outcome := "failed"
	if status >= 200 && status < 300 {
		outcome = "ok"
	}
	return fmt.Sprintf("%s %s %s (%s)", who, method, path, outcome)
}
