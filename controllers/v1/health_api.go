package apiv1

import (
	"context"
	"time"

	"github.com/bskqd/sd-solutions-test-task/controllers"
	apimodels "github.com/bskqd/sd-solutions-test-task/models/api"
	assessmentapimodels "github.com/bskqd/sd-solutions-test-task/models/api/assessment"

	"github.com/gofiber/fiber/v2"
)

// Pinger проверка доступности зависимостей, ключ - название компонента
type Pinger func(ctx context.Context) map[string]error

type healthApiController struct {
	controllers.BaseAPIController
	ping Pinger
}

func InitHealthApiRouters(app fiber.Router, ping Pinger) {
	controller := healthApiController{
		ping: ping,
	}
	app.Get("health", controller.Health)
}

// @Summary Состояние сервиса
// @Tags Health
// @Success 200 {object} apimodels.Response{data=assessmentapimodels.HealthResponse}
// @Failure 503 {object} apimodels.Response{data=assessmentapimodels.HealthResponse}
// @router /api/v1/health [get]
func (c *healthApiController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 3*time.Second)
	defer cancel()

	result := assessmentapimodels.HealthResponse{
		Status:     "ok",
		Components: map[string]string{},
	}
	for name, err := range c.ping(pingCtx) {
		if err != nil {
			result.Status = "degraded"
			result.Components[name] = err.Error()
			c.GetLogger(ctx).WithField("component", name).WithError(err).Warn("компонент недоступен")
			continue
		}
		result.Components[name] = "ok"
	}
	if result.Status != "ok" {
		resp := apimodels.NewResponse(result)
		resp.Status = "fail"
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
