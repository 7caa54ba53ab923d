package router

import (
	"github.com/hgalarze/mcfood-backend/internal/config"
	"github.com/hgalarze/mcfood-backend/internal/handler"
	"github.com/hgalarze/mcfood-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter 装配 Gin 引擎和全部 API 路由
func SetupRouter(cfg *config.Config, db *mongo.Database) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authMW := middleware.TokenMiddleware(jwtSecret)
	auditMW := middleware.AuditMiddleware(db, cfg.Security.EncryptionKey)

	userHandler := handler.NewUserHandler(db, jwtSecret, cfg.JWT.ExpireMinutes)
	categoryHandler := handler.NewCategoryHandler(db)
	productHandler := handler.NewProductHandler(db)
	exportHandler := handler.NewExportHandler(db)
	logHandler := handler.NewLogHandler(db, cfg.Security.EncryptionKey)

	// 用户：除登录外全部需要鉴权
	users := api.Group("/users")
	users.POST("/login", userHandler.Login)

	usersAuth := users.Group("", authMW, auditMW)
	usersAuth.GET("/search", userHandler.Search)
	usersAuth.GET("", userHandler.List)
	usersAuth.GET("/:id", userHandler.GetByID)
	usersAuth.POST("", userHandler.Create)
	usersAuth.PUT("/:id", userHandler.Update)
	usersAuth.PATCH("/:id", userHandler.Patch)
	usersAuth.DELETE("/:id", userHandler.Delete)

	// 分类：浏览公开，写操作需要鉴权
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.GetByID)

	categoriesAuth := categories.Group("", authMW, auditMW)
	categoriesAuth.GET("/search", categoryHandler.Search)
	categoriesAuth.POST("", categoryHandler.Create)
	categoriesAuth.PUT("/:id", categoryHandler.Update)
	categoriesAuth.PATCH("/:id", categoryHandler.Patch)
	categoriesAuth.DELETE("/:id", categoryHandler.Delete)

	// 商品：按分类/精选公开，其余需要鉴权
	products := api.Group("/products")
	products.GET("/by-category/:id", productHandler.ByCategory)
	products.GET("/highlighted/:maxItems", productHandler.Highlighted)

	productsAuth := products.Group("", authMW, auditMW)
	productsAuth.GET("/search", productHandler.Search)
	productsAuth.GET("", productHandler.List)
	productsAuth.GET("/:id", productHandler.GetByID)
	productsAuth.POST("", productHandler.Create)
	productsAuth.PUT("/:id", productHandler.Update)
	productsAuth.PATCH("/:id", productHandler.Patch)
	productsAuth.DELETE("/:id", productHandler.Delete)

	// 导出和审计日志
	protected := api.Group("", authMW, auditMW)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)
	protected.GET("/logs", logHandler.List)

	return r
}
