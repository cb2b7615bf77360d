package handlers

import (
	"errors"
	"net/http"

	"medicare/models"
	"medicare/services/patient"
	"medicare/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	Service patient.PatientService
}

func NewPatientHandler(svc patient.PatientService) *PatientHandler {
	return &PatientHandler{Service: svc}
}

func respondPatientError(c *gin.Context, err error) {
	var verr *patient.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    "Validation error",
			"messages": verr.Messages,
		})
	case errors.Is(err, patient.ErrPatientNotFound):
		utils.JSONError(c, http.StatusNotFound, "Patient not found")
	default:
		respondUnavailable(c, err)
	}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var p models.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	created, err := h.Service.CreatePatient(c.Request.Context(), p)
	if err != nil {
		respondPatientError(c, err)
		return
	}
	respondData(c, http.StatusCreated, created)
}

// ListPatients serves GET /api/patients, with ?q= for text search.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	patients, err := h.Service.SearchPatients(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondPatientError(c, err)
		return
	}
	respondList(c, len(patients), patients)
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	p, err := h.Service.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondPatientError(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var update models.PatientUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.Service.UpdatePatient(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondPatientError(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.Service.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		respondPatientError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}
