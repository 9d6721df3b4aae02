package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/config"
	"github.com/asamblea-eventos/backend/internal/attendance"
	"github.com/asamblea-eventos/backend/internal/auth"
	"github.com/asamblea-eventos/backend/internal/catalog"
	"github.com/asamblea-eventos/backend/internal/events"
	"github.com/asamblea-eventos/backend/internal/middleware"
	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/internal/people"
	"github.com/asamblea-eventos/backend/internal/registrations"
	"github.com/asamblea-eventos/backend/internal/reports"
	"github.com/asamblea-eventos/backend/pkg/database"
	"github.com/asamblea-eventos/backend/pkg/response"
)

// deps is what the router needs from main. eventCache and archive are optional.
type deps struct {
	cfg        *config.Config
	pool       database.TxBeginner
	eventCache events.Cache
	archive    reports.Archiver
	logger     *zap.Logger
}

func newRouter(d deps) *gin.Engine {
	cfg, pool, logger := d.cfg, d.pool, d.logger
	debug := cfg.App.IsDebug()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	authHandler := auth.NewHandler(auth.NewRepository(pool), jwtService, logger, debug)

	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, d.eventCache, cfg.App.PublicRegistrationURL, logger, debug)

	catalogHandler := catalog.NewHandler(catalog.NewRepository(pool), logger, debug)
	peopleHandler := people.NewHandler(people.NewRepository(pool), logger, debug)

	registrationSvc := registrations.NewService(registrations.NewPostgresTx(pool), logger)
	registrationHandler := registrations.NewHandler(registrationSvc, logger, debug)

	attendanceSvc := attendance.NewService(pool, logger)
	attendanceHandler := attendance.NewHandler(attendanceSvc, logger, debug)

	reportGen := reports.NewGenerator(eventRepo, attendanceSvc.Repository(), cfg.Report.OrgName, cfg.Report.Location(), logger)
	reportHandler := reports.NewHandler(reportGen, d.archive, logger, debug)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public
	router.POST("/auth/login", authHandler.Login)
	public := router.Group("/public")
	{
		public.GET("/evento/:link", eventHandler.GetPublic)
		public.POST("/registro/:link", registrationHandler.Register)
		public.GET("/cooperativas", catalogHandler.ActiveCooperatives)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	admin := middleware.RequireRole(models.RoleAdmin)
	{
		api.GET("/auth/me", authHandler.Me)
		api.GET("/usuarios", admin, authHandler.List)
		api.POST("/usuarios", admin, authHandler.CreateUser)

		api.GET("/catalogos/comisiones", catalogHandler.Commissions)
		api.GET("/catalogos/puestos", catalogHandler.Positions)

		api.GET("/eventos", eventHandler.List)
		api.GET("/eventos/activos", eventHandler.ListActive)
		api.GET("/eventos/proximos", eventHandler.ListUpcoming)
		api.GET("/eventos/:id", eventHandler.GetByID)
		api.POST("/eventos", admin, eventHandler.Create)
		api.PATCH("/eventos/:id", admin, eventHandler.Update)
		api.POST("/eventos/:id/publicar", admin, eventHandler.Publish)
		api.POST("/eventos/:id/despublicar", admin, eventHandler.Unpublish)
		api.DELETE("/eventos/:id", admin, eventHandler.Delete)

		api.GET("/personas/dpi/:dpi", peopleHandler.GetByDPI)

		api.POST("/asistencia/masiva", attendanceHandler.MarkBulk)
		api.POST("/asistencia/:id/marcar", attendanceHandler.Mark)
		api.GET("/asistencia/evento/:eventId", attendanceHandler.ForEvent)
		api.GET("/asistencia/:id/bitacora", attendanceHandler.AuditTrail)

		api.GET("/reportes/asistencia/:eventId/excel", reportHandler.Excel)
		api.GET("/reportes/asistencia/:eventId/pdf", reportHandler.PDF)
		api.POST("/reportes/asistencia/:eventId/:format/archivar", reportHandler.Archive)
	}

	return router
}
