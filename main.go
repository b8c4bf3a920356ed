package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/config"
	apiv1 "interview-prep-backend/controllers/v1"
	"interview-prep-backend/db"
	"interview-prep-backend/fiberlog"
	"interview-prep-backend/initializers"
	"interview-prep-backend/lib/utils/metrics"
	"interview-prep-backend/middleware"
	apimodels "interview-prep-backend/models/api"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		AppName:   config.Conf.App.Name,
		BodyLimit: config.Conf.App.BodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())
	app.Use(metrics.Middleware())

	app.Get("/health", func(ctx *fiber.Ctx) error {
		if err := db.PingDB(); err != nil {
			log.WithError(err).Error("БД недоступна")
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("database unavailable"))
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"ok": true}))
	})
	app.Get("/metrics", metrics.Handler())

	if _, err := os.Stat(config.Conf.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: config.Conf.Swagger.FilePath,
		}))
	} else {
		log.WithField("path", config.Conf.Swagger.FilePath).Warn("swagger файл не найден, документация не подключена")
	}

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.BodyLimit,
	})
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	if config.Conf.App.ErrNotifyURL != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyURL))
	}
	apiV1.Use(middleware.WithBodyLimit(int64(config.Conf.App.BodyLimit)))
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(middleware.AuthorizationOptional())
	app.Mount("/api/v1", apiV1)

	apiv1.InitCollectorApiRouters(apiV1)
	apiv1.InitInterviewApiRouters(apiV1)
	apiv1.InitTranscriptApiRouters(apiV1)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
