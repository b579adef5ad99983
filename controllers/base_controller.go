package controllers

import (
	"github.com/bskqd/sd-solutions-test-task/models"
	apimodels "github.com/bskqd/sd-solutions-test-task/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	CandidateIDHeader    = "candidate-id"
	candidateIDHeaderAlt = "candidate_id"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

// GetCandidateID идентификатор кандидата из заголовка candidate-id (или candidate_id)
func (c *BaseAPIController) GetCandidateID(ctx *fiber.Ctx) (string, error) {
	candidateID := ctx.Get(CandidateIDHeader)
	if candidateID == "" {
		candidateID = ctx.Get(candidateIDHeaderAlt)
	}
	if candidateID == "" {
		return "", errors.New("не указан заголовок candidate-id")
	}
	return candidateID, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.WithField("path", ctx.Path())
	if id, ok := ctx.Locals("requestid").(string); ok && id != "" {
		logger = logger.WithField("request_id", id)
	}
	return logger
}

func (c *BaseAPIController) SendError(ctx *fiber.Ctx, err error) error {
	status := ErrorStatus(err)
	logger := c.GetLogger(ctx).WithField("status", status).WithError(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("ошибка обработки запроса")
	} else {
		logger.Info("запрос отклонен")
	}
	return ctx.Status(status).JSON(apimodels.NewError(err.Error()))
}

// ErrorStatus http статус по типу ошибки
func ErrorStatus(err error) int {
	var formatErr *models.AgentFormatError
	var agentErr *models.AgentUnavailableError
	var storeErr *models.StoreUnavailableError
	var archiveErr *models.ArchiveUnavailableError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &formatErr):
		return fiber.StatusBadGateway
	case errors.As(err, &agentErr), errors.As(err, &storeErr), errors.As(err, &archiveErr):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}
