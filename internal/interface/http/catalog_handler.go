package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/application"
	"github.com/gestorly/catalog-api/pkg/response"
	"github.com/gestorly/catalog-api/pkg/validation"
)

type CatalogHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.ProductService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type searchRequest struct {
	Name   *string `form:"name"`
	Active *bool   `form:"active"`
}

type suggestRequest struct {
	Query string `form:"q" binding:"required"`
	Size  int    `form:"size" binding:"omitempty,gte=1"`
}

// List GET /api/catalog/products
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.Svc.GetAllProducts(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductViews(products), "products")
}

// Search GET /api/catalog/products/search?name=...&active=true|false
// Both filters are optional and combine with AND. Options come eagerly
// attached to every row.
func (h *CatalogHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}

	products, err := h.Svc.Search(c.Request.Context(), req.Name, req.Active)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProductViews(products), "search results")
}

// Suggest GET /api/catalog/suggest?q=...&size=...
// Autocomplete against the elasticsearch index. The database remains
// the source of truth; this endpoint only returns candidate names.
func (h *CatalogHandler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}

	names, err := h.Svc.SuggestNames(c.Request.Context(), req.Query, req.Size)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"suggestions": names}, "suggestions")
}
