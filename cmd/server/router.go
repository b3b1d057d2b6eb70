package main

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/config"
	docs "github.com/snnyvrz/libmanage/internal/docs"
	"github.com/snnyvrz/libmanage/internal/handler"
	"github.com/snnyvrz/libmanage/internal/middleware"
	"github.com/snnyvrz/libmanage/internal/report"
	"github.com/snnyvrz/libmanage/internal/service"
	"github.com/snnyvrz/libmanage/internal/validation"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

func newRouter(cfg *config.Config, database *gorm.DB, logger *slog.Logger, startTime time.Time) (*gin.Engine, error) {
	validation.Register()

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}

	reporter, err := report.New(database)
	if err != nil {
		return nil, err
	}

	e := gin.New()
	e.HandleMethodNotAllowed = true
	e.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	if err := e.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		return nil, err
	}

	docs.SwaggerInfo.BasePath = "/api"

	handler.NewHealthHandler(sqlDB, cfg.DBDriver, startTime, appVersion).RegisterRoutes(e)

	api := e.Group("/api")
	{
		handler.NewAuthHandler(service.NewAccounts(database)).RegisterRoutes(api)
		handler.NewBookHandler(service.NewCatalog(database)).RegisterRoutes(api)
		handler.NewCirculationHandler(service.NewCirculation(database, cfg.LoanDays)).RegisterRoutes(api)
		handler.NewReportHandler(reporter).RegisterRoutes(api)
	}

	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.NewFrontendHandler(cfg.WebRoot).RegisterRoutes(e)

	return e, nil
}
