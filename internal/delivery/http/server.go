package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/delivery/http/handler"
	"github.com/location-microservice/internal/delivery/http/middleware"
	apperrors "github.com/location-microservice/internal/pkg/errors"
)

// Server is the Fiber-based HTTP server exposing the public read API, the
// deletion-flag workflow, and the bearer-token-gated admin surface.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	centerHandler       *handler.CenterHandler
	deletionFlagHandler *handler.DeletionFlagHandler
	adminHandler        *handler.AdminHandler
	healthHandler       *handler.HealthHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	centerHandler *handler.CenterHandler,
	deletionFlagHandler *handler.DeletionFlagHandler,
	adminHandler *handler.AdminHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Center Office Directory",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    6 * 1024 * 1024,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                 app,
		config:              cfg,
		logger:              logger,
		centerHandler:       centerHandler,
		deletionFlagHandler: deletionFlagHandler,
		adminHandler:        adminHandler,
		healthHandler:       healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.CORS.Origin))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/api/health", s.healthHandler.Health)

	api := s.app.Group("/api")

	api.Get("/centers", s.centerHandler.List)
	api.Get("/centers/:id/offices", s.centerHandler.ListOffices)
	api.Post("/offices/flag-deletion", s.deletionFlagHandler.Submit)

	admin := api.Group("/admin", middleware.AdminAuth(s.config.Admin.Token))
	admin.Post("/centers/upload-csv", s.adminHandler.UploadCentersCSV)
	admin.Post("/companies/upload-csv", s.adminHandler.UploadCompaniesCSV)
	admin.Post("/refresh-center/:id", s.adminHandler.RefreshCenter)
	admin.Post("/refresh-batch", s.adminHandler.RefreshBatch)
	admin.Post("/refresh-all", s.adminHandler.RefreshAll)
	admin.Get("/offices/deletion-flags", s.deletionFlagHandler.List)
	admin.Post("/offices/deletion-flags/:flagId/decision", s.deletionFlagHandler.Decide)
	admin.Get("/status", s.adminHandler.Status)

	s.app.Use(func(c *fiber.Ctx) error {
		return apperrors.ErrRouteNotFound
	})
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler maps a domain *errors.AppError to its declared status
// code and body, and folds anything else into an opaque 500 so internals
// never leak into a response.
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(appErr.StatusCode).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    appErr.Code,
					"message": appErr.Message,
					"details": appErr.Details,
				},
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "REQUEST_ERROR",
					"message": fiberErr.Message,
				},
			})
		}

		logger.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    apperrors.ErrInternalServer.Code,
				"message": apperrors.ErrInternalServer.Message,
			},
		})
	}
}
