package handlers

import (
	"net/http"

	"medicare/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the latest dependency snapshot from the health monitor.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"success": status.Healthy(), "data": status})
}
