package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/application"
	"github.com/gestorly/catalog-api/pkg/response"
	"github.com/gestorly/catalog-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// registerRequest carries only shape, not field rules. The service owns
// the validation ordering contract (presence, then password length, then
// uniqueness, then formats).
type registerRequest struct {
	Username string `json:"username"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type availabilityRequest struct {
	Field string `form:"field" binding:"required,oneof=email username phone"`
	Value string `form:"value" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.Username, req.LastName, req.Email, req.Phone, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserView(u), "account created")
}

// Login POST /api/auth/login
// No such account and wrong password are indistinguishable on purpose.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if u == nil {
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "login successful")
}

// Availability GET /api/auth/availability?field=email|username|phone&value=...
func (h *AuthHandler) Availability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}

	var taken bool
	var err error
	switch req.Field {
	case "email":
		taken, err = h.Svc.IsEmailTaken(c.Request.Context(), req.Value)
	case "username":
		taken, err = h.Svc.IsUsernameTaken(c.Request.Context(), req.Value)
	case "phone":
		taken, err = h.Svc.IsPhoneTaken(c.Request.Context(), req.Value)
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"field": req.Field, "taken": taken}, "availability")
}
