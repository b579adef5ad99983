package sharedcontext

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bskqd/sd-solutions-test-task/models"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Provider промежуточное хранилище данных кандидата между этапами интервью.
// Запись создается на этапе генерации вопросов и удаляется после переноса в архив.
type Provider interface {
	Get(ctx context.Context, candidateID string) (models.CandidateInfo, error)
	SaveCandidateInfoAndQuestions(ctx context.Context, candidateID, firstName, secondName, jobTitle string, questions []string) error
	SaveResponseScoresAndComments(ctx context.Context, candidateID, response string, scoresAndComments []models.ScoreAndComment) error
	SaveFeedback(ctx context.Context, candidateID, feedback string) error
	Delete(ctx context.Context, candidateID string) error
	Ping(ctx context.Context) error
}

const (
	fieldFirstName         = "first_name"
	fieldSecondName        = "second_name"
	fieldJobTitle          = "job_title"
	fieldQuestions         = "questions"
	fieldCandidateResponse = "candidate_response"
	fieldScores            = "scores"
	fieldResponseComments  = "response_comments"
	fieldFeedback          = "feedback"
)

// KEYS[1] - ключ кандидата, ARGV[1] - ttl в мс (0 без ограничения), далее пары поле/значение.
// Дописываем поля только в существующую запись.
var mergeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
local ttl = tonumber(ARGV[1])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
end
return 1
`)

type impl struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

func NewInstance(client redis.UniversalClient, keyPrefix string, ttl time.Duration) Provider {
	return &impl{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (i impl) key(candidateID string) string {
	return i.keyPrefix + candidateID
}

func (i impl) Get(ctx context.Context, candidateID string) (models.CandidateInfo, error) {
	info, err := i.client.HGetAll(ctx, i.key(candidateID)).Result()
	if err != nil {
		return models.CandidateInfo{}, &models.StoreUnavailableError{Err: err}
	}
	if len(info) == 0 {
		return models.CandidateInfo{}, models.ErrNotFound
	}
	rec := models.CandidateInfo{
		CandidateID:       candidateID,
		FirstName:         info[fieldFirstName],
		SecondName:        info[fieldSecondName],
		JobTitle:          info[fieldJobTitle],
		Questions:         []string{},
		CandidateResponse: info[fieldCandidateResponse],
		Scores:            []int{},
		ResponseComments:  []string{},
		Feedback:          info[fieldFeedback],
	}
	if err = decodeField(info, fieldQuestions, &rec.Questions); err != nil {
		return models.CandidateInfo{}, err
	}
	if err = decodeField(info, fieldScores, &rec.Scores); err != nil {
		return models.CandidateInfo{}, err
	}
	if err = decodeField(info, fieldResponseComments, &rec.ResponseComments); err != nil {
		return models.CandidateInfo{}, err
	}
	return rec, nil
}

func (i impl) SaveCandidateInfoAndQuestions(ctx context.Context, candidateID, firstName, secondName, jobTitle string, questions []string) error {
	if questions == nil {
		questions = []string{}
	}
	questionsJson, err := json.Marshal(questions)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации списка вопросов")
	}
	key := i.key(candidateID)
	_, err = i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]interface{}{
			fieldFirstName:  firstName,
			fieldSecondName: secondName,
			fieldJobTitle:   jobTitle,
			fieldQuestions:  string(questionsJson),
		})
		if i.ttl > 0 {
			pipe.PExpire(ctx, key, i.ttl)
		}
		return nil
	})
	if err != nil {
		return &models.StoreUnavailableError{Err: err}
	}
	return nil
}

func (i impl) SaveResponseScoresAndComments(ctx context.Context, candidateID, response string, scoresAndComments []models.ScoreAndComment) error {
	scores, comments := models.SplitScores(scoresAndComments)
	scoresJson, err := json.Marshal(scores)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации оценок")
	}
	commentsJson, err := json.Marshal(comments)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации комментариев")
	}
	return i.merge(ctx, candidateID,
		fieldCandidateResponse, response,
		fieldScores, string(scoresJson),
		fieldResponseComments, string(commentsJson),
	)
}

func (i impl) SaveFeedback(ctx context.Context, candidateID, feedback string) error {
	return i.merge(ctx, candidateID, fieldFeedback, feedback)
}

func (i impl) Delete(ctx context.Context, candidateID string) error {
	if err := i.client.Del(ctx, i.key(candidateID)).Err(); err != nil {
		return &models.StoreUnavailableError{Err: err}
	}
	return nil
}

func (i impl) Ping(ctx context.Context) error {
	if err := i.client.Ping(ctx).Err(); err != nil {
		return &models.StoreUnavailableError{Err: err}
	}
	return nil
}

func (i impl) merge(ctx context.Context, candidateID string, fieldValues ...interface{}) error {
	args := make([]interface{}, 0, len(fieldValues)+1)
	args = append(args, i.ttl.Milliseconds())
	args = append(args, fieldValues...)
	updated, err := mergeScript.Run(ctx, i.client, []string{i.key(candidateID)}, args...).Int()
	if err != nil {
		return &models.StoreUnavailableError{Err: err}
	}
	if updated == 0 {
		return models.ErrNotFound
	}
	return nil
}

func decodeField(info map[string]string, field string, out interface{}) error {
	value, exist := info[field]
	if !exist || value == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return errors.Wrapf(err, "ошибка декодирования поля %s", field)
	}
	return nil
}
