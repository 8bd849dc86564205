package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "wozamali-core/docs/swagger"
	"wozamali-core/internal/handler"
	"wozamali-core/internal/server/routes"
	"wozamali-core/pkg/monitor"
	"wozamali-core/pkg/validator"
)

// Handlers groups everything the HTTP router serves.
type Handlers struct {
	Health      *handler.HealthHandler
	Materials   *handler.MaterialHandler
	Collections *handler.CollectionHandler
	Wallets     *handler.WalletHandler
}

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(h Handlers) *gin.Engine {
	// 0. 初始化监控指标 + 自定义校验规则
	monitor.Init()
	validator.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", h.Health.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	routes.RegisterMaterialRoutes(api, h.Materials)
	routes.RegisterCollectionRoutes(api, h.Collections)
	routes.RegisterCustomerRoutes(api, h.Collections, h.Wallets)

	return r
}
