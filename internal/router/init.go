package router

import (
	"github.com/gestorly/catalog-api/internal/application"
	"github.com/gestorly/catalog-api/internal/container"
	"github.com/gestorly/catalog-api/internal/infrastructure/postgres"
	handlers "github.com/gestorly/catalog-api/internal/interface/http"
	"github.com/gestorly/catalog-api/internal/router/modules"
)

type Deps struct {
	UserService    *application.UserService
	ProductService *application.ProductService
	OptionService  *application.OptionService
	Browse         *handlers.BrowseHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	factory := postgres.NewFactory(container.GetPGPool())

	userSvc := application.NewUserService(factory, logger, container.GetRabbitPub())
	productSvc := application.NewProductService(factory, logger, container.GetES(), cfg.ESProductsIndex)
	optionSvc := application.NewOptionService(factory, logger)

	browse := handlers.NewBrowseHandler(productSvc, logger, cfg.SearchDebounce, cfg.BrowseSessionTTL, cfg.BrowseSessionMax)

	return Deps{
		UserService:    userSvc,
		ProductService: productSvc,
		OptionService:  optionSvc,
		Browse:         browse,
	}
}

// InitModules wires the feature modules from the container singletons and
// registers them with the router registry. Called once during startup.
// The returned deps expose long-lived components main needs at shutdown.
func InitModules(r *Registry) Deps {
	deps := buildDeps()
	logger := container.GetLogger()

	authHandler := handlers.NewAuthHandler(deps.UserService, logger)
	catalogHandler := handlers.NewCatalogHandler(deps.ProductService, logger)
	optionHandler := handlers.NewOptionHandler(deps.OptionService, logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewCatalogModule(catalogHandler, optionHandler, deps.Browse))
	return deps
}
