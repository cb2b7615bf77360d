package handlers

import (
	"errors"
	"net/http"

	"medicare/middleware"
	"medicare/models"
	"medicare/services/appointment"
	"medicare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
}

// respondUnavailable hides infrastructure detail from clients and logs it.
func respondUnavailable(c *gin.Context, err error) {
	middleware.GetLogger(c).Error("request failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, utils.UnavailableMessage)
}

// respondAppointmentError maps booking errors onto the public envelope.
func respondAppointmentError(c *gin.Context, err error) {
	var verr *appointment.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Missing():
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    "Missing required fields",
			"message":  verr.Message,
			"required": models.RequiredAppointmentFields,
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    "Validation error",
			"messages": []string{verr.Message},
		})
	case errors.Is(err, appointment.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Duplicate appointment",
			"message": appointment.ErrConflict.Error(),
		})
	case errors.Is(err, appointment.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Appointment not found")
	default:
		respondUnavailable(c, err)
	}
}
