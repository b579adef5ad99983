package assessmenthandler

import (
	"context"
	"time"

	candidateid "github.com/bskqd/sd-solutions-test-task/lib/candidate-id"
	filestorage "github.com/bskqd/sd-solutions-test-task/lib/file-storage"
	gpthandler "github.com/bskqd/sd-solutions-test-task/lib/gpt"
	sharedcontext "github.com/bskqd/sd-solutions-test-task/lib/shared-context"
	"github.com/bskqd/sd-solutions-test-task/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider три этапа оценки кандидата: вопросы, оценка ответа, проверка и архивирование
type Provider interface {
	GenerateQuestions(ctx context.Context, firstName, secondName, jobTitle string) (models.GeneratedQuestions, error)
	EvaluateResponse(ctx context.Context, candidateID, response string) ([]models.ScoreAndComment, error)
	Validate(ctx context.Context, candidateID string) (models.CandidateInfo, error)
}

type impl struct {
	sharedContext sharedcontext.Provider
	agents        gpthandler.Provider
	fileStorage   filestorage.Provider
	now           func() time.Time
}

func NewHandler(sharedContext sharedcontext.Provider, agents gpthandler.Provider, fileStorage filestorage.Provider) Provider {
	return &impl{
		sharedContext: sharedContext,
		agents:        agents,
		fileStorage:   fileStorage,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (i impl) GenerateQuestions(ctx context.Context, firstName, secondName, jobTitle string) (models.GeneratedQuestions, error) {
	candidateID := candidateid.Derive(firstName, secondName, jobTitle)
	ctx = gpthandler.WithCandidateID(ctx, candidateID)
	logger := log.WithField("candidate_id", candidateID)

	questions, err := i.agents.GenerateQuestions(ctx, jobTitle)
	if err != nil {
		return models.GeneratedQuestions{}, errors.Wrap(err, "ошибка генерации вопросов")
	}
	err = i.sharedContext.SaveCandidateInfoAndQuestions(ctx, candidateID, firstName, secondName, jobTitle, questions)
	if err != nil {
		return models.GeneratedQuestions{}, errors.Wrap(err, "ошибка сохранения вопросов")
	}
	logger.WithField("questions_count", len(questions)).Info("вопросы для кандидата сгенерированы")
	return models.GeneratedQuestions{
		CandidateID: candidateID,
		Questions:   questions,
	}, nil
}

func (i impl) EvaluateResponse(ctx context.Context, candidateID, response string) ([]models.ScoreAndComment, error) {
	// запись может существовать только под корректным идентификатором
	if !candidateid.IsValid(candidateID) {
		return nil, models.ErrNotFound
	}
	ctx = gpthandler.WithCandidateID(ctx, candidateID)
	info, err := i.sharedContext.Get(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	result, err := i.agents.EvaluateResponse(ctx, info.JobTitle, info.Questions, response)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка оценки ответа")
	}
	if err = i.sharedContext.SaveResponseScoresAndComments(ctx, candidateID, response, result); err != nil {
		return nil, errors.Wrap(err, "ошибка сохранения оценки ответа")
	}
	log.
		WithField("candidate_id", candidateID).
		WithField("scores_count", len(result)).
		Info("ответ кандидата оценен")
	return result, nil
}

// Validate проверяет оценки, переносит запись кандидата в постоянное хранилище
// и удаляет ее из хранилища сессий. Удаление выполняется только после записи
// в оба бакета.
func (i impl) Validate(ctx context.Context, candidateID string) (models.CandidateInfo, error) {
	if !candidateid.IsValid(candidateID) {
		return models.CandidateInfo{}, models.ErrNotFound
	}
	ctx = gpthandler.WithCandidateID(ctx, candidateID)
	logger := log.WithField("candidate_id", candidateID)

	info, err := i.sharedContext.Get(ctx, candidateID)
	if err != nil {
		return models.CandidateInfo{}, err
	}
	validated, err := i.agents.ValidateScores(ctx, info.JobTitle, info.Questions, info.CandidateResponse, info.Scores, info.ResponseComments)
	if err != nil {
		return models.CandidateInfo{}, errors.Wrap(err, "ошибка проверки оценок")
	}
	err = i.sharedContext.SaveResponseScoresAndComments(ctx, candidateID, info.CandidateResponse, validated.Scores)
	if err != nil {
		return models.CandidateInfo{}, errors.Wrap(err, "ошибка сохранения проверенных оценок")
	}
	if err = i.sharedContext.SaveFeedback(ctx, candidateID, validated.Feedback); err != nil {
		return models.CandidateInfo{}, errors.Wrap(err, "ошибка сохранения отзыва")
	}
	final, err := i.sharedContext.Get(ctx, candidateID)
	if err != nil {
		return models.CandidateInfo{}, err
	}

	ts := i.now()
	url, err := i.fileStorage.SaveCandidateInfo(ctx, final, ts)
	if err != nil {
		logger.WithError(err).Error("ошибка архивирования данных кандидата")
		return models.CandidateInfo{}, errors.Wrap(err, "ошибка архивирования данных кандидата")
	}
	if err = i.fileStorage.SaveSessionLog(ctx, final, ts, url); err != nil {
		logger.WithError(err).Error("ошибка сохранения журнала сессии")
		return models.CandidateInfo{}, errors.Wrap(err, "ошибка сохранения журнала сессии")
	}
	if err = i.sharedContext.Delete(ctx, candidateID); err != nil {
		// данные уже в архиве, запись сессии удалится повторным запросом или по ttl
		logger.WithError(err).Warn("ошибка удаления данных кандидата из хранилища сессий")
	}
	logger.
		WithField("object_name", filestorage.ObjectName(candidateID, ts)).
		Info("сессия кандидата завершена и перенесена в архив")
	return final, nil
}
