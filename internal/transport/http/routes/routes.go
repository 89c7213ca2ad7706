package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/infra/config"
	"github.com/tablehive/backoffice/internal/transport/http/handlers"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Menus         *usecase.MenuService
	Roles         *usecase.RoleService
	Permissions   *usecase.PermissionService
	Organizations *usecase.OrganizationService
	Restaurants   *usecase.RestaurantService
	Products      *usecase.ProductService
	Tables        *usecase.TableService
	Orders        *usecase.OrderService
	Users         *usecase.UserService
	Statuses      *usecase.StatusService
	AuditLogs     *usecase.AuditLogService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Tracer      trace.Tracer
	Tokens      middleware.TokenVerifier
	Users       middleware.UserLoader
	Authorizer  middleware.PermissionChecker
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if deps.Tracer != nil {
		r.Use(middleware.Tracing(middleware.TracingConfig{Tracer: deps.Tracer}))
	}
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	if deps.Config.Telemetry.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	authMiddleware := middleware.RequireAuth(deps.Tokens, deps.Users)
	requires := func(menuID, action string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Authorizer, menuID, action)
	}

	api := r.Group("/api/v1")
	if rl := buildAPIRateLimit(deps); rl != nil {
		api.Use(rl)
	}
	api.Use(authMiddleware)
	{
		// The menu tree feeds the permission checkbox matrix in the role
		// editor, so it shares the roles view gate.
		menuHandler := handlers.NewMenuHandler(deps.Services.Menus)
		api.GET("/menus", requires(domain.MenuRoles, domain.VerbView), menuHandler.Tree)

		statusHandler := handlers.NewStatusHandler(deps.Services.Statuses)
		api.GET("/statuses", statusHandler.ListByEntityType)

		roleHandler := handlers.NewRoleHandler(deps.Services.Roles, deps.Services.Permissions)
		roles := api.Group("/roles")
		roles.GET("", requires(domain.MenuRoles, domain.VerbView), roleHandler.List)
		roles.POST("", requires(domain.MenuRoles, domain.VerbCreate), roleHandler.Create)
		roles.GET("/:roleId", requires(domain.MenuRoles, domain.VerbView), roleHandler.Get)
		roles.PUT("/:roleId", requires(domain.MenuRoles, domain.VerbUpdate), roleHandler.Update)
		roles.DELETE("/:roleId", requires(domain.MenuRoles, domain.VerbDelete), roleHandler.Delete)
		roles.GET("/:roleId/menus", requires(domain.MenuRoles, domain.VerbView), roleHandler.ListMenus)
		roles.PUT("/:roleId/menus", requires(domain.MenuRoles, domain.VerbUpdate), roleHandler.AssignMenus)
		roles.GET("/:roleId/menus/:menuId", requires(domain.MenuRoles, domain.VerbView), roleHandler.GetMenuPermissions)
		roles.PUT("/:roleId/menus/:menuId", requires(domain.MenuRoles, domain.VerbUpdate), roleHandler.SetMenuPermissions)
		api.GET("/actions", requires(domain.MenuRoles, domain.VerbView), roleHandler.ListActions)

		orgHandler := handlers.NewOrganizationHandler(deps.Services.Organizations)
		orgs := api.Group("/organizations")
		orgs.GET("", requires(domain.MenuOrganizations, domain.VerbView), orgHandler.List)
		orgs.POST("", requires(domain.MenuOrganizations, domain.VerbCreate), orgHandler.Create)
		orgs.GET("/:orgId", requires(domain.MenuOrganizations, domain.VerbView), orgHandler.Get)
		orgs.PUT("/:orgId", requires(domain.MenuOrganizations, domain.VerbUpdate), orgHandler.Update)
		orgs.DELETE("/:orgId", requires(domain.MenuOrganizations, domain.VerbDelete), orgHandler.Delete)

		restaurantHandler := handlers.NewRestaurantHandler(deps.Services.Restaurants)
		restaurants := api.Group("/restaurants")
		restaurants.GET("", requires(domain.MenuRestaurants, domain.VerbView), restaurantHandler.List)
		restaurants.POST("", requires(domain.MenuRestaurants, domain.VerbCreate), restaurantHandler.Create)
		restaurants.GET("/:restaurantId", requires(domain.MenuRestaurants, domain.VerbView), restaurantHandler.Get)
		restaurants.PUT("/:restaurantId", requires(domain.MenuRestaurants, domain.VerbUpdate), restaurantHandler.Update)
		restaurants.DELETE("/:restaurantId", requires(domain.MenuRestaurants, domain.VerbDelete), restaurantHandler.Delete)

		productHandler := handlers.NewProductHandler(deps.Services.Products)
		products := api.Group("/products")
		products.GET("", requires(domain.MenuProducts, domain.VerbView), productHandler.List)
		products.POST("", requires(domain.MenuProducts, domain.VerbCreate), productHandler.Create)
		products.GET("/:productId", requires(domain.MenuProducts, domain.VerbView), productHandler.Get)
		products.PUT("/:productId", requires(domain.MenuProducts, domain.VerbUpdate), productHandler.Update)
		products.PUT("/:productId/status", requires(domain.MenuProducts, domain.ActionUpdateStatus), productHandler.UpdateStatus)
		products.DELETE("/:productId", requires(domain.MenuProducts, domain.VerbDelete), productHandler.Delete)

		tableHandler := handlers.NewTableHandler(deps.Services.Tables)
		tables := api.Group("/tables")
		tables.GET("", requires(domain.MenuTables, domain.VerbView), tableHandler.List)
		tables.POST("", requires(domain.MenuTables, domain.VerbCreate), tableHandler.Create)
		tables.GET("/:tableId", requires(domain.MenuTables, domain.VerbView), tableHandler.Get)
		tables.PUT("/:tableId", requires(domain.MenuTables, domain.VerbUpdate), tableHandler.Update)
		tables.DELETE("/:tableId", requires(domain.MenuTables, domain.VerbDelete), tableHandler.Delete)

		orderHandler := handlers.NewOrderHandler(deps.Services.Orders)
		orders := api.Group("/orders")
		orders.GET("", requires(domain.MenuOrders, domain.VerbView), orderHandler.List)
		orders.GET("/:orderId", requires(domain.MenuOrders, domain.VerbView), orderHandler.Get)
		orders.PUT("/:orderId/status", requires(domain.MenuOrders, domain.ActionUpdateStatus), orderHandler.UpdateStatus)

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		users := api.Group("/users")
		users.GET("", requires(domain.MenuUsers, domain.VerbView), userHandler.List)
		users.POST("", requires(domain.MenuUsers, domain.VerbCreate), userHandler.Create)
		users.GET("/:userId", requires(domain.MenuUsers, domain.VerbView), userHandler.Get)
		users.PUT("/:userId", requires(domain.MenuUsers, domain.VerbUpdate), userHandler.Update)
		users.PUT("/:userId/password", requires(domain.MenuUsers, domain.ActionChangePassword), userHandler.ChangePassword)
		users.DELETE("/:userId", requires(domain.MenuUsers, domain.VerbDelete), userHandler.Delete)

		auditHandler := handlers.NewAuditLogHandler(deps.Services.AuditLogs)
		api.GET("/audit-logs", requires(domain.MenuAuditLogs, domain.VerbView), auditHandler.List)
	}

	return r
}

func buildAPIRateLimit(deps Dependencies) gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.MaxRequests
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "api_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return deps.RateLimiter.RateLimit(rule)
}
