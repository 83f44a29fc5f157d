package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/application"
	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/pkg/response"
	"github.com/gestorly/catalog-api/pkg/validation"
)

type OptionHandler struct {
	Svc    *application.OptionService
	Logger *logrus.Logger
}

func NewOptionHandler(svc *application.OptionService, logger *logrus.Logger) *OptionHandler {
	return &OptionHandler{Svc: svc, Logger: logger}
}

type createOptionRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	ProductID int64  `json:"product_id" binding:"required,gt=0"`
	Active    *bool  `json:"active"`
}

type updateOptionRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	ProductID int64  `json:"product_id" binding:"required,gt=0"`
	Active    bool   `json:"active"`
	Version   int64  `json:"version" binding:"required,gt=0"`
}

// Create POST /api/catalog/options
func (h *OptionHandler) Create(c *gin.Context) {
	var req createOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	opt := &entity.Option{Name: req.Name, ProductID: req.ProductID, Active: active}

	created, err := h.Svc.AddOption(c.Request.Context(), opt)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toOptionView(created), "option created")
}

// Update PUT /api/catalog/options/:id
// The caller must send the version it last read. A stale version comes
// back as 409 so the client can reload before retrying.
func (h *OptionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid option id", nil)
		return
	}

	var req updateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	opt := &entity.Option{
		ID:        id,
		Name:      req.Name,
		ProductID: req.ProductID,
		Active:    req.Active,
		Version:   req.Version,
	}

	updated, err := h.Svc.UpdateOption(c.Request.Context(), opt)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toOptionView(updated), "option updated")
}

// Delete DELETE /api/catalog/options/:id
// Deleting an option that is already gone still returns 204.
func (h *OptionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid option id", nil)
		return
	}

	if err := h.Svc.DeleteOption(c.Request.Context(), id); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
