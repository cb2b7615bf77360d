package handlers

import (
	"net/http"
	"strings"

	"medicare/models"
	"medicare/services/appointment"
	"medicare/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler exposes the booking API over HTTP.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// CreateAppointment handles POST /api/appointments.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    "Validation error",
			"messages": []string{"invalid request body"},
		})
		return
	}

	appt, err := h.Service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	respondData(c, http.StatusCreated, appt)
}

// ListByEmail handles GET /api/appointments/:email.
func (h *AppointmentHandler) ListByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	summaries, err := h.Service.ListByEmail(c.Request.Context(), email)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	respondList(c, len(summaries), summaries)
}

// GetAppointment handles GET /api/appointments/id/:id.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appt, err := h.Service.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	respondData(c, http.StatusOK, appt)
}

// UpdateStatus handles PUT /api/appointments/:id/status.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		utils.JSONError(c, http.StatusBadRequest, "Status is required")
		return
	}

	appt, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Status))
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	respondData(c, http.StatusOK, appt)
}

// DeleteAppointment handles DELETE /api/appointments/:id.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.Service.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		respondAppointmentError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// ListAll handles GET /api/appointments.
func (h *AppointmentHandler) ListAll(c *gin.Context) {
	appts, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	respondList(c, len(appts), appts)
}

// Availability handles GET /api/availability?date=&doctor=.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	av, err := h.Service.Availability(c.Request.Context(),
		strings.TrimSpace(c.Query("doctor")),
		strings.TrimSpace(c.Query("date")))
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	respondData(c, http.StatusOK, av)
}
