package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/service"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/response"
)

const deviceIDKey = "device_id"

// DeviceAuth requires a valid scanner token on every ticket route and
// stashes the device id for handlers and access logs.
func DeviceAuth(auth service.DeviceAuthService, l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error(c, http.StatusUnauthorized, "missing device token")
			return
		}

		deviceID, err := auth.ValidateDeviceToken(c.Request.Context(), token)
		if err != nil {
			l.Warnf(c.Request.Context(), "delivery.http.DeviceAuth: %v", err)
			response.Error(c, mapError(err), err.Error())
			return
		}

		c.Set(deviceIDKey, deviceID)
		c.Next()
	}
}
