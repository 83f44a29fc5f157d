package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestorly/catalog-api/internal/container"
	handlers "github.com/gestorly/catalog-api/internal/interface/http"
	"github.com/gestorly/catalog-api/internal/interface/middleware"
)

type CatalogModule struct {
	Catalog *handlers.CatalogHandler
	Options *handlers.OptionHandler
	Browse  *handlers.BrowseHandler
}

func NewCatalogModule(catalog *handlers.CatalogHandler, options *handlers.OptionHandler, browse *handlers.BrowseHandler) *CatalogModule {
	return &CatalogModule{Catalog: catalog, Options: options, Browse: browse}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/catalog/products", m.Catalog.List)
	rg.GET("/catalog/products/search", m.Catalog.Search)
	rg.GET("/catalog/suggest", m.Catalog.Suggest)

	rg.POST("/catalog/options", m.Options.Create)
	rg.PUT("/catalog/options/:id", m.Options.Update)
	rg.DELETE("/catalog/options/:id", m.Options.Delete)

	// Session creation is the only endpoint that allocates server-side
	// state per call, so it gets its own IP limit on top of the cap.
	browseCreateLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath())
	rg.POST("/catalog/browse", browseCreateLimiter, m.Browse.Create)
	rg.GET("/catalog/browse/:id", m.Browse.Snapshot)
	rg.PUT("/catalog/browse/:id/filters", m.Browse.SetFilters)
	rg.POST("/catalog/browse/:id/clear", m.Browse.ClearFilters)
	rg.POST("/catalog/browse/:id/refresh", m.Browse.Refresh)
	rg.DELETE("/catalog/browse/:id", m.Browse.Delete)
}
