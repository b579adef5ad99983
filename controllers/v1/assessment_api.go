package apiv1

import (
	"github.com/bskqd/sd-solutions-test-task/controllers"
	assessmenthandler "github.com/bskqd/sd-solutions-test-task/lib/assessment"
	apimodels "github.com/bskqd/sd-solutions-test-task/models/api"
	assessmentapimodels "github.com/bskqd/sd-solutions-test-task/models/api/assessment"

	"github.com/gofiber/fiber/v2"
)

type assessmentApiController struct {
	controllers.BaseAPIController
	assessment assessmenthandler.Provider
}

func InitAssessmentApiRouters(app fiber.Router, assessment assessmenthandler.Provider) {
	controller := assessmentApiController{
		assessment: assessment,
	}
	app.Get("generate_questions", controller.GenerateQuestions)
	app.Post("generate_questions", controller.GenerateQuestions)
	app.Post("evaluate_responses", controller.EvaluateResponse)
	app.Post("validate_scores", controller.ValidateScores)
}

// @Summary Сгенерировать вопросы интервью
// @Tags Assessment
// @Description Создает (или пересоздает) сессию кандидата и генерирует вопросы по должности
// @Param	body				body		assessmentapimodels.GenerateQuestionsRequest	true	"request body"
// @Success 200 {object} assessmentapimodels.GenerateQuestionsResponse
// @Failure 400 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/generate_questions [post]
func (c *assessmentApiController) GenerateQuestions(ctx *fiber.Ctx) error {
	var payload assessmentapimodels.GenerateQuestionsRequest
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	} else if err := ctx.QueryParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	result, err := c.assessment.GenerateQuestions(ctx.UserContext(), *payload.FirstName, *payload.SecondName, *payload.JobTitle)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(assessmentapimodels.GenerateQuestionsResponse{
		CandidateID: result.CandidateID,
		Questions:   result.Questions,
	})
}

// @Summary Оценить ответ кандидата
// @Tags Assessment
// @Description Оценивает ответ кандидата на сгенерированные вопросы
// @Param   candidate-id		header		string	true	"Candidate ID"
// @Param	body				body		assessmentapimodels.EvaluateResponseRequest	true	"request body"
// @Success 200 {object} assessmentapimodels.EvaluateResponseResponse
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/evaluate_responses [post]
func (c *assessmentApiController) EvaluateResponse(ctx *fiber.Ctx) error {
	candidateID, err := c.GetCandidateID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload assessmentapimodels.EvaluateResponseRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	scores, err := c.assessment.EvaluateResponse(ctx.UserContext(), candidateID, *payload.Response)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(assessmentapimodels.EvaluateResponseResponse{
		Scores: scores,
	})
}

// @Summary Проверить оценки и завершить сессию
// @Tags Assessment
// @Description Проверяет оценки, формирует отзыв и переносит данные кандидата в архив
// @Param   candidate-id		header		string	true	"Candidate ID"
// @Success 200 {object} assessmentapimodels.ValidateScoresResponse
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/validate_scores [post]
func (c *assessmentApiController) ValidateScores(ctx *fiber.Ctx) error {
	candidateID, err := c.GetCandidateID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	final, err := c.assessment.Validate(ctx.UserContext(), candidateID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(assessmentapimodels.NewValidateScoresResponse(final))
}
