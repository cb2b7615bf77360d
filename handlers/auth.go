package handlers

import (
	"errors"
	"net/http"

	"medicare/middleware"
	"medicare/models"
	"medicare/services/user"
	"medicare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Service user.UserService
}

func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func respondAuthError(c *gin.Context, err error) {
	var verr *user.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation error", "messages": []string{verr.Error()}})
	case errors.Is(err, user.ErrEmailTaken):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrAccountInactive):
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	default:
		respondUnavailable(c, err)
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp, err := h.Service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	respondData(c, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp, err := h.Service.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		middleware.GetLogger(c).Info("login failed", zap.Error(err))
		respondAuthError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// Me handles GET /api/auth/me behind the JWT middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Service.GetUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondAuthError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}
