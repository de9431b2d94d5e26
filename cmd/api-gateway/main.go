package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/course-themes-api/api/swagger"
	"github.com/noah-isme/course-themes-api/internal/handler"
	internalmiddleware "github.com/noah-isme/course-themes-api/internal/middleware"
	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/repository"
	"github.com/noah-isme/course-themes-api/internal/service"
	"github.com/noah-isme/course-themes-api/pkg/cache"
	"github.com/noah-isme/course-themes-api/pkg/config"
	"github.com/noah-isme/course-themes-api/pkg/database"
	"github.com/noah-isme/course-themes-api/pkg/export"
	"github.com/noah-isme/course-themes-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-themes-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-themes-api/pkg/middleware/requestid"
)

// @title Course Themes API
// @version 1.0.0
// @description Administrative API for cross-curricular course theme settings and entries
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	// Redis is optional. Without it the overview cache is disabled and
	// every read goes to postgres.
	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, overview cache disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Overview.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Overview.CacheTTL, logr, cfg.Overview.CacheEnabled)
	}

	userRepo := repository.NewUserRepository(db)
	themeRepo := repository.NewThemeRepository(db)
	subThemeRepo := repository.NewSubThemeRepository(db)
	themeSettingRepo := repository.NewThemeSettingRepository(db)
	subThemeSettingRepo := repository.NewSubThemeSettingRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	rosterRepo := repository.NewRosterRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "course-themes-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	themeSvc := service.NewThemeService(themeRepo, subThemeRepo, validate, logr)
	subThemeSvc := service.NewSubThemeService(subThemeRepo, themeRepo, validate, logr)
	themeSettingSvc := service.NewThemeSettingService(themeSettingRepo, subThemeSettingRepo, themeRepo, subThemeRepo, cacheSvc, validate, logr)
	subThemeSettingSvc := service.NewSubThemeSettingService(subThemeSettingRepo, subThemeRepo, cacheSvc, validate, logr)
	entrySvc := service.NewEntryService(entryRepo, subThemeSettingRepo, themeSettingRepo, subThemeRepo, validate, logr)
	copySvc := service.NewCopyService(themeSettingRepo, subThemeSettingRepo, entryRepo, subThemeRepo, cacheSvc, validate, logr)
	exportSvc := service.NewExportService(themeSettingRepo, entryRepo, rosterRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	themeHandler := handler.NewThemeHandler(themeSvc)
	subThemeHandler := handler.NewSubThemeHandler(subThemeSvc)
	themeSettingHandler := handler.NewThemeSettingHandler(themeSettingSvc)
	subThemeSettingHandler := handler.NewSubThemeSettingHandler(subThemeSettingSvc)
	entryHandler := handler.NewEntryHandler(entrySvc)
	copyHandler := handler.NewCopyHandler(copySvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		start := time.Now()
		err := db.PingContext(c.Request.Context())
		metricsSvc.ObserveDBQuery("ping", time.Since(start))
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)

		authed := auth.Group("", internalmiddleware.JWT(authSvc))
		authed.POST("/logout", authHandler.Logout)
		authed.POST("/change-password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	protected := api.Group("", internalmiddleware.JWT(authSvc))
	admin := internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	staff := internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)

	users := protected.Group("/users", admin)
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	themes := protected.Group("/themes")
	{
		themes.GET("", themeHandler.List)
		themes.GET("/:id", themeHandler.Get)
		themes.GET("/:id/sub-themes", subThemeHandler.ListByTheme)
		themes.POST("", admin, themeHandler.Create)
		themes.PUT("/:id", admin, themeHandler.Update)
		themes.DELETE("/:id", admin, themeHandler.Delete)
	}

	subThemes := protected.Group("/sub-themes")
	{
		subThemes.GET("/:id", subThemeHandler.Get)
		subThemes.GET("/:id/courses", entryHandler.CoursesBySubTheme)
		subThemes.POST("", admin, subThemeHandler.Create)
		subThemes.PUT("/:id", admin, subThemeHandler.Update)
		subThemes.DELETE("/:id", admin, subThemeHandler.Delete)
	}

	themeSettings := protected.Group("/theme-settings")
	{
		themeSettings.GET("", themeSettingHandler.List)
		themeSettings.GET("/overview", themeSettingHandler.Overview)
		themeSettings.GET("/:id", themeSettingHandler.Get)
		themeSettings.POST("", admin, themeSettingHandler.Create)
		themeSettings.PUT("/:id", admin, themeSettingHandler.Update)
		themeSettings.DELETE("/:id", admin, themeSettingHandler.Delete)
	}

	subThemeSettings := protected.Group("/sub-theme-settings")
	{
		subThemeSettings.GET("/:id", subThemeSettingHandler.Get)
		subThemeSettings.PUT("/:id", admin, subThemeSettingHandler.Update)
	}

	entries := protected.Group("/entries")
	{
		entries.GET("", entryHandler.ListByCourse)
		entries.GET("/form", entryHandler.FormData)
		entries.GET("/exists", entryHandler.Exists)
		entries.GET("/:id", entryHandler.Get)
		entries.POST("", staff, entryHandler.Create)
		entries.POST("/batch", staff, entryHandler.BatchCreate)
		entries.POST("/delete-by-key", staff, entryHandler.DeleteByKey)
		entries.PUT("/:id", staff, entryHandler.Update)
		entries.DELETE("/:id", staff, entryHandler.Delete)
	}

	copies := protected.Group("/copy", admin)
	{
		copies.POST("/settings", internalmiddleware.Audit(userRepo, models.AuditActionCopySettings, "theme_settings"), copyHandler.CopySettings)
		copies.POST("/entries", internalmiddleware.Audit(userRepo, models.AuditActionCopyEntries, "course_entries"), copyHandler.CopyEntries)
	}

	exports := protected.Group("/exports")
	{
		exports.GET("/year-term", exportHandler.YearTerm)
		exports.POST("/courses", exportHandler.Courses)
	}

	system := protected.Group("/system", admin)
	{
		system.GET("/status", metricsHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
