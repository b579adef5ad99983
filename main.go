package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bskqd/sd-solutions-test-task/config"
	apiv1 "github.com/bskqd/sd-solutions-test-task/controllers/v1"
	_ "github.com/bskqd/sd-solutions-test-task/docs"
	"github.com/bskqd/sd-solutions-test-task/fiberlog"
	"github.com/bskqd/sd-solutions-test-task/initializers"
	"github.com/bskqd/sd-solutions-test-task/middleware"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("ошибка загрузки конфигурации")
	}
	services, err := initializers.InitAllServices(ctx, conf)
	if err != nil {
		log.WithError(err).Fatal("ошибка инициализации сервисов")
	}
	defer services.Close()

	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	if _, err := os.Stat(conf.App.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: conf.App.SwaggerPath,
		}))
	} else {
		log.WithField("path", conf.App.SwaggerPath).Warn("описание API не найдено, swagger отключен")
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*services.LoggerConfig))
	if conf.App.ErrNotifyURL != "" {
		apiV1.Use(middleware.ErrNotify(conf.App.ErrNotifyURL))
	}
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Candidate-Id",
		AllowMethods: "GET, POST",
	}))
	apiv1.InitAssessmentApiRouters(apiV1, services.Assessment)
	apiv1.InitArchiveApiRouters(apiV1, services.FileStorage, services.XlsExport, services.PdfExport)
	apiv1.InitHealthApiRouters(apiV1, services.Ping)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-c:
		case <-ctx.Done():
			return
		}
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", conf.App.ListenAddr, conf.App.Port)); err != nil {
		log.WithError(err).Error("ошибка запуска HTTP сервера")
		cancel()
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
