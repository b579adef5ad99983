package assessmentapimodels

import (
	"github.com/bskqd/sd-solutions-test-task/models"

	"github.com/pkg/errors"
)

// GenerateQuestionsRequest пустые строки допустимы, отклоняется только отсутствующее поле
type GenerateQuestionsRequest struct {
	FirstName  *string `json:"first_name" query:"first_name" swaggertype:"string"`   // Имя кандидата
	SecondName *string `json:"second_name" query:"second_name" swaggertype:"string"` // Фамилия кандидата
	JobTitle   *string `json:"job_title" query:"job_title" swaggertype:"string"`     // Должность
}

func (r GenerateQuestionsRequest) Validate() error {
	if r.FirstName == nil {
		return errors.New("не указано имя кандидата")
	}
	if r.SecondName == nil {
		return errors.New("не указана фамилия кандидата")
	}
	if r.JobTitle == nil {
		return errors.New("не указана должность")
	}
	return nil
}

type GenerateQuestionsResponse struct {
	CandidateID string   `json:"candidate_id"` // Идентификатор кандидата для следующих этапов
	Questions   []string `json:"questions"`    // Вопросы интервью
}

type EvaluateResponseRequest struct {
	Response *string `json:"response" swaggertype:"string"` // Ответ кандидата, может быть пустым
}

func (r EvaluateResponseRequest) Validate() error {
	if r.Response == nil {
		return errors.New("не указан ответ кандидата")
	}
	return nil
}

type EvaluateResponseResponse struct {
	Scores []models.ScoreAndComment `json:"scores"` // Оценки с комментариями
}

type ValidateScoresResponse struct {
	Questions []string `json:"questions"` // Вопросы интервью
	Response  string   `json:"response"`  // Ответ кандидата
	Scores    []int    `json:"scores"`    // Проверенные оценки
	Comments  []string `json:"comments"`  // Комментарии к оценкам
	Feedback  string   `json:"feedback"`  // Итоговый отзыв
}

func NewValidateScoresResponse(info models.CandidateInfo) ValidateScoresResponse {
	return ValidateScoresResponse{
		Questions: info.Questions,
		Response:  info.CandidateResponse,
		Scores:    info.Scores,
		Comments:  info.ResponseComments,
		Feedback:  info.Feedback,
	}
}

type HealthResponse struct {
	Status     string            `json:"status"`     // ok / degraded
	Components map[string]string `json:"components"` // Состояние хранилищ
}
