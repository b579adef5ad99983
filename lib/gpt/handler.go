package gpthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ailogstore "github.com/bskqd/sd-solutions-test-task/lib/gpt/store"
	"github.com/bskqd/sd-solutions-test-task/models"
	dbmodels "github.com/bskqd/sd-solutions-test-task/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider три независимых агента оценки кандидата
type Provider interface {
	GenerateQuestions(ctx context.Context, jobTitle string) (questions []string, err error)
	EvaluateResponse(ctx context.Context, jobTitle string, questions []string, response string) (result []models.ScoreAndComment, err error)
	ValidateScores(ctx context.Context, jobTitle string, questions []string, response string, scores []int, comments []string) (result models.ValidationResult, err error)
}

// Completer клиент генеративной модели (yagptclient.Provider, openaiclient.Provider)
type Completer interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
}

type impl struct {
	client         Completer
	aiName         dbmodels.AiName
	logStore       ailogstore.Provider
	questionsCount int
}

// NewHandler logStore может быть nil, тогда журнал обращений к ИИ не ведется
func NewHandler(client Completer, aiName dbmodels.AiName, logStore ailogstore.Provider, questionsCount int) Provider {
	if questionsCount <= 0 {
		questionsCount = 3
	}
	return impl{
		client:         client,
		aiName:         aiName,
		logStore:       logStore,
		questionsCount: questionsCount,
	}
}

func (i impl) GenerateQuestions(ctx context.Context, jobTitle string) (questions []string, err error) {
	userPromt := fmt.Sprintf(GenerateQuestionsTemplate, i.questionsCount, jobTitle)
	answer, err := i.complete(ctx, dbmodels.AiGenerateQuestionsType, GenerateQuestionsSysPromt, userPromt)
	if err != nil {
		return nil, err
	}
	if err = decodeStrict(answer, &questions); err != nil {
		return nil, i.formatError(dbmodels.AiGenerateQuestionsType, answer, err)
	}
	if questions == nil {
		return nil, i.formatError(dbmodels.AiGenerateQuestionsType, answer, errors.New("ожидался массив строк"))
	}
	return questions, nil
}

func (i impl) EvaluateResponse(ctx context.Context, jobTitle string, questions []string, response string) (result []models.ScoreAndComment, err error) {
	userPromt := fmt.Sprintf(EvaluateResponseTemplate, jobTitle, toJson(questions), response)
	answer, err := i.complete(ctx, dbmodels.AiEvaluateResponseType, EvaluateResponseSysPromt, userPromt)
	if err != nil {
		return nil, err
	}
	var raw []rawScore
	if err = decodeStrict(answer, &raw); err != nil {
		return nil, i.formatError(dbmodels.AiEvaluateResponseType, answer, err)
	}
	if raw == nil {
		return nil, i.formatError(dbmodels.AiEvaluateResponseType, answer, errors.New("ожидался массив оценок"))
	}
	result, err = convertScores(raw)
	if err != nil {
		return nil, i.formatError(dbmodels.AiEvaluateResponseType, answer, err)
	}
	return result, nil
}

func (i impl) ValidateScores(ctx context.Context, jobTitle string, questions []string, response string, scores []int, comments []string) (result models.ValidationResult, err error) {
	userPromt := fmt.Sprintf(ValidateScoresTemplate, jobTitle, toJson(questions), response, toJson(scores), toJson(comments))
	answer, err := i.complete(ctx, dbmodels.AiValidateScoresType, ValidateScoresSysPromt, userPromt)
	if err != nil {
		return result, err
	}
	var raw struct {
		Scores   []rawScore `json:"scores"`
		Feedback *string    `json:"feedback"`
	}
	if err = decodeStrict(answer, &raw); err != nil {
		return result, i.formatError(dbmodels.AiValidateScoresType, answer, err)
	}
	if raw.Scores == nil || raw.Feedback == nil {
		return result, i.formatError(dbmodels.AiValidateScoresType, answer, errors.New("ожидались поля scores и feedback"))
	}
	result.Scores, err = convertScores(raw.Scores)
	if err != nil {
		return result, i.formatError(dbmodels.AiValidateScoresType, answer, err)
	}
	result.Feedback = *raw.Feedback
	return result, nil
}

func (i impl) complete(ctx context.Context, reqType dbmodels.AiReqestType, sysPromt, userPromt string) (string, error) {
	logger := i.getLogger(ctx, reqType)
	answer, err := i.client.GenerateByPromtAndText(ctx, sysPromt, userPromt)
	if err != nil {
		logger.WithError(err).Error("ошибка обращения к ИИ")
		return "", &models.AgentUnavailableError{Agent: string(reqType), Err: err}
	}
	i.saveLog(ctx, reqType, sysPromt, userPromt, answer)
	return strings.TrimSpace(answer), nil
}

func (i impl) formatError(reqType dbmodels.AiReqestType, answer string, err error) error {
	log.
		WithField("ai", i.aiName).
		WithField("request_type", reqType).
		WithField("answer", answer).
		WithError(err).
		Error("ответ ИИ не соответствует ожидаемому формату")
	return &models.AgentFormatError{Agent: string(reqType), Raw: answer, Err: err}
}

func (i impl) saveLog(ctx context.Context, reqType dbmodels.AiReqestType, sysPromt, userPromt, answer string) {
	if i.logStore == nil {
		return
	}
	rec := dbmodels.AiLog{
		CandidateID: CandidateIDFromContext(ctx),
		SysPromt:    sysPromt,
		UserPromt:   userPromt,
		Answer:      answer,
		ReqestType:  reqType,
		AiName:      i.aiName,
	}
	// журнал не должен влиять на результат запроса
	if _, err := i.logStore.Save(context.WithoutCancel(ctx), rec); err != nil {
		i.getLogger(ctx, reqType).WithError(err).Warn("ошибка сохранения журнала ИИ")
	}
}

func (i impl) getLogger(ctx context.Context, reqType dbmodels.AiReqestType) *log.Entry {
	logger := log.
		WithField("ai", i.aiName).
		WithField("request_type", reqType)
	if candidateID := CandidateIDFromContext(ctx); candidateID != "" {
		logger = logger.WithField("candidate_id", candidateID)
	}
	return logger
}

type rawScore struct {
	Score   *int    `json:"score"`
	Comment *string `json:"comment"`
}

func convertScores(raw []rawScore) ([]models.ScoreAndComment, error) {
	result := make([]models.ScoreAndComment, 0, len(raw))
	for idx, item := range raw {
		if item.Score == nil || item.Comment == nil {
			return nil, errors.Errorf("элемент %d: ожидались поля score и comment", idx)
		}
		result = append(result, models.ScoreAndComment{
			Score:   *item.Score,
			Comment: *item.Comment,
		})
	}
	return result, nil
}

// decodeStrict ответ должен быть ровно одним json значением без лишних полей
func decodeStrict(answer string, out interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader([]byte(answer)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return errors.Wrap(err, "ошибка декодирования json")
	}
	if _, err := decoder.Token(); err != io.EOF {
		return errors.New("лишние данные после json")
	}
	return nil
}

func toJson(value interface{}) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
